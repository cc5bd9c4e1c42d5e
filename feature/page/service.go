package page

import (
	"context"
	"fmt"

	"notion-sync/core/block"
	"notion-sync/core/diff"
	"notion-sync/core/notion"
	"notion-sync/core/sync"

	"go.uber.org/zap"
)

// Service handles page-level operations: fetching block trees, planning diffs
// against desired content, and applying the resulting scripts.
type Service struct {
	client notion.Client
	exec   *sync.Executor
	logger *zap.Logger
}

// NewService creates a new page service.
func NewService(client notion.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		exec:   sync.NewExecutor(client, logger),
		logger: logger,
	}
}

// FetchBlocks returns the direct children of a page or block. Children of
// nested blocks are not fetched; HasChildren marks where they exist.
func (s *Service) FetchBlocks(ctx context.Context, pageID string) ([]*block.Block, error) {
	return s.client.ListChildren(ctx, pageID)
}

// FetchBlocksRecursive returns the page's block tree with every level of
// children populated. The walk uses an explicit work list so arbitrarily deep
// trees cannot exhaust the stack. Synced copies are returned shallow; their
// content belongs to the original block.
func (s *Service) FetchBlocksRecursive(ctx context.Context, pageID string) ([]*block.Block, error) {
	roots, err := s.client.ListChildren(ctx, pageID)
	if err != nil {
		return nil, err
	}

	pending := make([]*block.Block, 0, len(roots))
	pending = append(pending, roots...)
	for len(pending) > 0 {
		b := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if !b.HasChildren || b.IsSyncedCopy() {
			continue
		}
		children, err := s.client.ListChildren(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch children of %s: %w", b.ID, err)
		}
		b.Children = children
		pending = append(pending, children...)
	}

	return roots, nil
}

// Plan fetches the page's current top-level blocks and computes the flat edit
// script that transforms them into desired.
func (s *Service) Plan(ctx context.Context, pageID string, desired []*block.Block) (diff.Script, error) {
	current, err := s.FetchBlocks(ctx, pageID)
	if err != nil {
		return nil, err
	}
	script, err := diff.Flat(current, desired)
	if err != nil {
		return nil, err
	}
	diff.LogScript(s.logger, script)
	return script, nil
}

// PlanStructural fetches the full block tree and computes in-place updates
// for a shape-identical desired tree. Returns diff.ErrStructureMismatch when
// the trees diverge structurally.
func (s *Service) PlanStructural(ctx context.Context, pageID string, desired []*block.Block) (diff.Script, error) {
	current, err := s.FetchBlocksRecursive(ctx, pageID)
	if err != nil {
		return nil, err
	}
	script, err := diff.Structural(current, desired)
	if err != nil {
		return nil, err
	}
	diff.LogScript(s.logger, script)
	return script, nil
}

// Apply executes a previously planned script against the page.
func (s *Service) Apply(ctx context.Context, pageID string, script diff.Script, opts sync.Options) (sync.Stats, error) {
	return s.exec.Execute(ctx, pageID, script, opts)
}

// Sync plans and applies in one step: the page's top-level blocks end up
// matching desired, with unchanged blocks left untouched.
func (s *Service) Sync(ctx context.Context, pageID string, desired []*block.Block, opts sync.Options) (sync.Stats, error) {
	script, err := s.Plan(ctx, pageID, desired)
	if err != nil {
		return sync.Stats{}, err
	}
	return s.Apply(ctx, pageID, script, opts)
}

// Propagate pushes content changes onto a page whose structure already
// matches desired, for example a page previously created by Sync. Every
// block is updated in place; nothing is created or deleted.
func (s *Service) Propagate(ctx context.Context, pageID string, desired []*block.Block, opts sync.Options) (sync.Stats, error) {
	script, err := s.PlanStructural(ctx, pageID, desired)
	if err != nil {
		return sync.Stats{}, err
	}
	return s.Apply(ctx, pageID, script, opts)
}

// AppendBlocks creates blocks at the end of the page and returns their ids.
func (s *Service) AppendBlocks(ctx context.Context, pageID string, blocks []*block.Block) ([]string, error) {
	return s.client.AppendChildren(ctx, pageID, blocks, "")
}

// Clear deletes every non-archived top-level block of the page, cascading
// through children. Returns the number of top-level blocks deleted.
func (s *Service) Clear(ctx context.Context, pageID string) (int, error) {
	current, err := s.FetchBlocks(ctx, pageID)
	if err != nil {
		return 0, err
	}

	script := make(diff.Script, 0, len(current))
	for _, b := range current {
		script = append(script, diff.Op{Kind: diff.OpDelete, TargetID: b.ID, Current: b})
	}

	stats, err := s.Apply(ctx, pageID, script, sync.Options{})
	if err != nil {
		return stats.Deleted, err
	}
	s.logger.Info("Page cleared",
		zap.String("page_id", pageID),
		zap.Int("deleted", stats.Deleted),
		zap.Int("skipped", stats.Skipped))
	return stats.Deleted, nil
}

// Title returns the page's title text, or the empty string when the page has
// no title property.
func (s *Service) Title(ctx context.Context, pageID string) (string, error) {
	page, err := s.client.GetPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	return extractTitle(page), nil
}

// SetTitle replaces the page's title property.
func (s *Service) SetTitle(ctx context.Context, pageID, title string) error {
	return s.client.UpdatePageTitle(ctx, pageID, title)
}

// extractTitle pulls the plain text of the title property out of a raw page
// object. Pages inside databases can name the title property arbitrarily, so
// every property is scanned for type "title".
func extractTitle(page map[string]any) string {
	props, ok := page["properties"].(map[string]any)
	if !ok {
		return ""
	}
	for _, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok || prop["type"] != "title" {
			continue
		}
		spans, ok := prop["title"].([]any)
		if !ok {
			return ""
		}
		return block.RichText(spans)
	}
	return ""
}
