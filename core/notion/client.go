package notion

import (
	"context"

	"notion-sync/core/block"
)

// MaxChildrenPerRequest is the remote cap on blocks per create call. Larger
// lists are batched internally; a batch boundary can only fall between
// top-level entries, so a block is never split from its declared children.
const MaxChildrenPerRequest = 100

// Client defines the remote store operations the sync engine needs. One
// client instance owns one rate limiter; every concurrent sync run sharing
// the client shares the request gate.
type Client interface {
	// GetPage retrieves page metadata.
	GetPage(ctx context.Context, pageID string) (map[string]any, error)

	// ListChildren returns all direct children of a block or page, in order,
	// paginating internally until exhaustion.
	ListChildren(ctx context.Context, blockID string) ([]*block.Block, error)

	// AppendChildren creates the given blocks under parentID. When afterID is
	// non-empty the run is placed directly after that block; otherwise it is
	// appended at the end of the parent. Returns the created block IDs in
	// order.
	AppendChildren(ctx context.Context, parentID string, children []*block.Block, afterID string) ([]string, error)

	// UpdateBlock patches a block's payload. The payload must already have
	// the per-kind mutability policy applied and must not contain children.
	UpdateBlock(ctx context.Context, blockID string, payload map[string]any) error

	// DeleteBlock archives a block. Descendants are not cascaded by the
	// remote; callers cascade explicitly.
	DeleteBlock(ctx context.Context, blockID string) error

	// UpdatePageTitle replaces the page's title property.
	UpdatePageTitle(ctx context.Context, pageID, title string) error
}
