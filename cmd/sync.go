package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"notion-sync/core/block"
	"notion-sync/core/config"
	"notion-sync/core/diff"
	"notion-sync/core/logger"
	"notion-sync/core/notion"
	"notion-sync/core/sync"
	"notion-sync/feature/page"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync command
	dryRunSync     bool
	structuralSync bool
	yesConfirm     bool
)

// syncCmd diffs a page against a desired block file and applies the result.
var syncCmd = &cobra.Command{
	Use:   "sync <page-url-or-id> <blocks.json>",
	Short: "Sync a page's blocks to match a desired block file",
	Long: `Sync fetches a page's current blocks, diffs them against the desired
blocks in the given JSON file, and applies the resulting edit script.

Unchanged blocks are left untouched so their ids, comments, and child
content survive. The blocks file holds an array of blocks in API wire
format.

Examples:
  # Preview without touching the page
  notion-sync sync https://notion.so/My-Page-abc123... blocks.json --dry-run

  # Apply with interactive confirmation
  notion-sync sync abc123... blocks.json

  # In-place content propagation for a structurally identical page
  notion-sync sync abc123... blocks.json --structural --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan and report without making any changes")
	syncCmd.Flags().BoolVar(&structuralSync, "structural", false, "Update in place, failing if the page's structure diverges")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm changes (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pageID, err := notion.ExtractPageID(args[0])
	if err != nil {
		return err
	}

	desired, err := loadBlocksFile(args[1])
	if err != nil {
		return err
	}

	//Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := notion.NewClient(cfg.Notion, l)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	svc := page.NewService(client, l)

	l.Info("Planning sync",
		zap.String("page_id", pageID),
		zap.Int("desired_blocks", len(desired)),
		zap.Bool("structural", structuralSync))

	var script diff.Script
	if structuralSync {
		script, err = svc.PlanStructural(ctx, pageID, desired)
	} else {
		script, err = svc.Plan(ctx, pageID, desired)
	}
	if err != nil {
		return fmt.Errorf("failed to plan sync: %w", err)
	}

	fmt.Println(diff.FormatPreview(script))

	if script.ChangeCount() == 0 {
		l.Info("Page already in sync. No changes required.")
		return nil
	}

	if dryRunSync {
		stats, err := svc.Apply(ctx, pageID, script, sync.Options{DryRun: true})
		if err != nil {
			return err
		}
		printStats(l, "Dry-run complete. No changes were made.", stats)
		return nil
	}

	if !confirmChanges(script.ChangeCount()) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	stats, err := svc.Apply(ctx, pageID, script, sync.Options{})
	if err != nil {
		printStats(l, "Sync failed partway; the page is partially updated.", stats)
		return fmt.Errorf("failed to apply sync: %w", err)
	}

	printStats(l, "Sync complete", stats)
	return nil
}

// loadBlocksFile reads a JSON array of wire-format blocks.
func loadBlocksFile(path string) ([]*block.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocks file: %w", err)
	}

	var wires []map[string]any
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("failed to parse blocks file %s: %w", path, err)
	}

	blocks := make([]*block.Block, 0, len(wires))
	for i, wire := range wires {
		b, err := block.FromWire(wire)
		if err != nil {
			return nil, fmt.Errorf("invalid block at index %d in %s: %w", i, path, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// printStats reports execution statistics using the logger.
func printStats(l *zap.Logger, msg string, stats sync.Stats) {
	l.Info(msg,
		zap.Int("kept", stats.Kept),
		zap.Int("updated", stats.Updated),
		zap.Int("inserted", stats.Inserted),
		zap.Int("deleted", stats.Deleted),
		zap.Int("replaced", stats.Replaced),
		zap.Int("skipped", stats.Skipped),
	)
}

// confirmChanges prompts the user for confirmation or uses --yes flag.
func confirmChanges(changes int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to apply %d change(s): ", changes)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
