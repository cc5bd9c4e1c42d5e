package sync

import (
	"context"
	"fmt"

	"notion-sync/core/block"
	"notion-sync/core/diff"
	"notion-sync/core/notion"

	"go.uber.org/zap"
)

// Stats aggregates the outcome of one script execution. Replace counts once
// under Replaced; the remote saw one delete and one create per replaced
// block, so Deleted+Replaced and Inserted+Replaced reconcile against the call
// log.
type Stats struct {
	Kept     int `json:"kept"`
	Updated  int `json:"updated"`
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// Options controls execution behavior.
type Options struct {
	// DryRun classifies and counts ops without making any remote call.
	DryRun bool
}

// Executor applies edit scripts against the remote store. Ops are applied
// strictly in script order: insertion anchors depend on the ops before them
// having been resolved. There is no mid-run cancellation beyond context
// cancellation and no rollback; on failure the remote is left partially
// applied and the partial Stats are returned alongside the error.
type Executor struct {
	client notion.Client
	log    *zap.Logger
}

// NewExecutor creates an executor bound to one remote client. The client's
// rate limiter is the shared gate for every call this executor makes.
func NewExecutor(client notion.Client, log *zap.Logger) *Executor {
	return &Executor{client: client, log: log}
}

// Execute applies the script under parentID and returns aggregate statistics.
func (e *Executor) Execute(ctx context.Context, parentID string, script diff.Script, opts Options) (Stats, error) {
	var stats Stats

	if opts.DryRun {
		for _, op := range script {
			classify(op, &stats)
		}
		return stats, nil
	}

	rest, lastID, err := e.placeLeadingInserts(ctx, parentID, script, &stats)
	if err != nil {
		return stats, err
	}

	for _, op := range rest {
		if err := e.apply(ctx, parentID, op, &lastID, &stats); err != nil {
			return stats, fmt.Errorf("failed to execute %s at index %d: %w", op.Kind, op.Index, err)
		}
	}

	e.log.Info("Script executed",
		zap.String("parent_id", parentID),
		zap.Int("kept", stats.Kept),
		zap.Int("updated", stats.Updated),
		zap.Int("inserted", stats.Inserted),
		zap.Int("deleted", stats.Deleted),
		zap.Int("replaced", stats.Replaced),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// classify counts one op the way the live path would, without any call.
func classify(op diff.Op, stats *Stats) {
	archived := op.Current != nil && op.Current.Archived
	switch op.Kind {
	case diff.OpKeep:
		stats.Kept++
	case diff.OpUpdate:
		switch {
		case archived:
			stats.Kept++
		case op.Current.IsSyncedCopy():
			stats.Skipped++
		default:
			stats.Updated++
		}
	case diff.OpReplace:
		if archived {
			stats.Inserted++
		} else {
			stats.Replaced++
		}
	case diff.OpInsert:
		stats.Inserted++
	case diff.OpDelete:
		if archived {
			stats.Skipped++
		} else {
			stats.Deleted++
		}
	}
}

// apply executes one op, maintaining lastID as the id of the most recently
// resolved block (kept, updated, or created) for insertion anchoring.
func (e *Executor) apply(ctx context.Context, parentID string, op diff.Op, lastID *string, stats *Stats) error {
	archived := op.Current != nil && op.Current.Archived

	switch op.Kind {
	case diff.OpKeep:
		*lastID = op.TargetID
		stats.Kept++

	case diff.OpUpdate:
		if archived {
			// Archived blocks cannot be patched; they stay as they are.
			e.log.Debug("Skipping update of archived block", zap.String("block_id", op.TargetID))
			*lastID = op.TargetID
			stats.Kept++
			return nil
		}
		if op.Current.IsSyncedCopy() {
			e.log.Info("Skipping synced copy, not independently updatable",
				zap.String("block_id", op.TargetID),
				zap.String("path", op.PathString()))
			*lastID = op.TargetID
			stats.Skipped++
			return nil
		}
		payload, err := block.UpdatePayload(op.Desired)
		if err != nil {
			return err
		}
		if err := e.client.UpdateBlock(ctx, op.TargetID, payload); err != nil {
			return err
		}
		*lastID = op.TargetID
		stats.Updated++

	case diff.OpDelete:
		if archived {
			e.log.Debug("Skipping delete of already archived block", zap.String("block_id", op.TargetID))
			stats.Skipped++
			return nil
		}
		if err := e.deleteCascade(ctx, op.TargetID, op.Current.HasChildren); err != nil {
			return err
		}
		stats.Deleted++

	case diff.OpInsert:
		ids, err := e.client.AppendChildren(ctx, parentID, []*block.Block{op.Desired}, *lastID)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			*lastID = ids[len(ids)-1]
		}
		stats.Inserted++

	case diff.OpReplace:
		if !archived {
			if err := e.deleteCascade(ctx, op.TargetID, op.Current.HasChildren); err != nil {
				return err
			}
		}
		ids, err := e.client.AppendChildren(ctx, parentID, []*block.Block{op.Desired}, *lastID)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			*lastID = ids[len(ids)-1]
		}
		if archived {
			// The old block could not be removed; the new content still went
			// in at the right position.
			stats.Inserted++
		} else {
			stats.Replaced++
		}
	}

	return nil
}

// deleteCascade archives a block and all its descendants. The remote does not
// cascade, and trees can be arbitrarily deep, so this walks an explicit work
// list instead of recursing.
func (e *Executor) deleteCascade(ctx context.Context, id string, hasChildren bool) error {
	type target struct {
		id          string
		hasChildren bool
	}

	stack := []target{{id: id, hasChildren: hasChildren}}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if next.hasChildren {
			children, err := e.client.ListChildren(ctx, next.id)
			if err != nil {
				return err
			}
			for _, child := range children {
				if child.Archived {
					continue
				}
				stack = append(stack, target{id: child.ID, hasChildren: child.HasChildren})
			}
		}

		if err := e.client.DeleteBlock(ctx, next.id); err != nil {
			return err
		}
	}

	return nil
}

// placeLeadingInserts resolves ops that create blocks before any existing
// block survives to anchor them. The remote only supports "create after
// block X", so an unanchored run of inserts and replaces cannot be placed
// directly. The maneuver, isolated here so the main loop never special-cases
// it:
//
//  1. Execute the unanchored prefix: deletes run as usual, the delete half
//     of each replace runs now, and every created block (insert or replace)
//     is collected into one ordered run.
//  2. Create the collected run after the first retained block F, the first
//     KEEP or UPDATE target.
//  3. Move F below the run by deleting it and recreating its content after
//     the run's last block (the remote has no move primitive; a delete +
//     create pair is the reorder). A KEEP keeps its fetched content, an
//     UPDATE is recreated with the desired content. F's child tree is
//     refetched before the move so its descendants survive the recreate.
//
// Returns the unprocessed script suffix and the running anchor id.
func (e *Executor) placeLeadingInserts(ctx context.Context, parentID string, script diff.Script, stats *Stats) (diff.Script, string, error) {
	if !script.HasLeadingInserts() {
		return script, "", nil
	}

	// Locate the first retained block before touching anything.
	anchorIdx := -1
	for i, op := range script {
		if op.Kind == diff.OpKeep || op.Kind == diff.OpUpdate {
			anchorIdx = i
			break
		}
	}
	if anchorIdx >= 0 && script[anchorIdx].Current.Archived {
		// An archived block cannot be deleted and recreated; fall back to
		// executing the script as-is, which appends the leading blocks at the
		// end of the parent.
		e.log.Warn("First retained block is archived, cannot reorder leading blocks",
			zap.String("block_id", script[anchorIdx].TargetID))
		return script, "", nil
	}

	prefix := script
	if anchorIdx >= 0 {
		prefix = script[:anchorIdx]
	}

	var leading []*block.Block
	var inserted, replaced int
	for _, op := range prefix {
		switch op.Kind {
		case diff.OpInsert:
			leading = append(leading, op.Desired)
			inserted++
		case diff.OpReplace:
			if op.Current.Archived {
				// The old block stays; the new content still joins the run.
				leading = append(leading, op.Desired)
				inserted++
				continue
			}
			if err := e.deleteCascade(ctx, op.TargetID, op.Current.HasChildren); err != nil {
				return nil, "", err
			}
			leading = append(leading, op.Desired)
			replaced++
		case diff.OpDelete:
			if op.Current.Archived {
				stats.Skipped++
				continue
			}
			if err := e.deleteCascade(ctx, op.TargetID, op.Current.HasChildren); err != nil {
				return nil, "", err
			}
			stats.Deleted++
		}
	}

	if anchorIdx == -1 {
		// Nothing survives on the remote side: a plain append lands the new
		// blocks in order.
		ids, err := e.client.AppendChildren(ctx, parentID, leading, "")
		if err != nil {
			return nil, "", err
		}
		stats.Inserted += inserted
		stats.Replaced += replaced
		last := ""
		if len(ids) > 0 {
			last = ids[len(ids)-1]
		}
		return nil, last, nil
	}

	first := script[anchorIdx]
	ids, err := e.client.AppendChildren(ctx, parentID, leading, first.TargetID)
	if err != nil {
		return nil, "", err
	}
	stats.Inserted += inserted
	stats.Replaced += replaced
	lastID := first.TargetID
	if len(ids) > 0 {
		lastID = ids[len(ids)-1]
	}

	content := first.Desired
	if first.Kind == diff.OpKeep {
		content = first.Current
	}
	content = content.Clone()
	if len(content.Children) == 0 && first.Current.HasChildren {
		// Shallow fetches leave Children empty; load the real subtree so the
		// recreate carries it over.
		children, err := e.fetchSubtree(ctx, first.TargetID)
		if err != nil {
			return nil, "", err
		}
		content.Children = children
	}

	if err := e.deleteCascade(ctx, first.TargetID, first.Current.HasChildren); err != nil {
		return nil, "", err
	}
	created, err := e.client.AppendChildren(ctx, parentID, []*block.Block{content}, lastID)
	if err != nil {
		return nil, "", err
	}
	if len(created) > 0 {
		lastID = created[len(created)-1]
	}
	if first.Kind == diff.OpKeep {
		stats.Kept++
	} else {
		stats.Updated++
	}
	return script[anchorIdx+1:], lastID, nil
}

// fetchSubtree loads the full child tree under id, descending through every
// block flagged as having children except synced copies, which mirror their
// original and carry no content of their own.
func (e *Executor) fetchSubtree(ctx context.Context, id string) ([]*block.Block, error) {
	children, err := e.client.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	pending := append([]*block.Block(nil), children...)
	for len(pending) > 0 {
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if !next.HasChildren || next.IsSyncedCopy() || len(next.Children) > 0 {
			continue
		}
		nested, err := e.client.ListChildren(ctx, next.ID)
		if err != nil {
			return nil, err
		}
		next.Children = nested
		pending = append(pending, nested...)
	}

	return children, nil
}
