// Package page provides the page-level API: fetching block trees, diffing
// them against desired content, applying edit scripts, and layout helpers
// for column lists and page titles.
package page
