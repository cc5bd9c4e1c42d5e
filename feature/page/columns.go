package page

import (
	"context"
	"fmt"

	"notion-sync/core/block"
	"notion-sync/core/diff"
	"notion-sync/core/sync"

	"go.uber.org/zap"
)

// CreateColumns builds a column list from the given columns and appends it at
// the end of the page. Every column must carry at least one child block; the
// remote rejects empty columns. Returns the created column list id.
func (s *Service) CreateColumns(ctx context.Context, pageID string, columns []block.Column) (string, error) {
	for i, col := range columns {
		if len(col.Children) == 0 {
			return "", fmt.Errorf("column %d has no children, the remote rejects empty columns", i)
		}
	}

	list := block.NewColumnList(columns...)
	ids, err := s.client.AppendChildren(ctx, pageID, []*block.Block{list}, "")
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("column list creation returned no id")
	}
	s.logger.Info("Column list created",
		zap.String("page_id", pageID),
		zap.String("column_list_id", ids[0]),
		zap.Int("columns", len(columns)))
	return ids[0], nil
}

// ReadColumns fetches a column list's columns with their content and width
// ratios.
func (s *Service) ReadColumns(ctx context.Context, columnListID string) ([]block.Column, error) {
	cols, err := s.client.ListChildren(ctx, columnListID)
	if err != nil {
		return nil, err
	}

	out := make([]block.Column, 0, len(cols))
	for _, col := range cols {
		if col.Kind != block.KindColumn {
			continue
		}
		children, err := s.client.ListChildren(ctx, col.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch column %s: %w", col.ID, err)
		}
		column := block.Column{Children: children}
		if ratio, ok := col.Payload["width_ratio"].(float64); ok {
			column.WidthRatio = ratio
		}
		out = append(out, column)
	}
	return out, nil
}

// UnwrapColumns flattens a column list back into the page: the columns'
// content is recreated directly after the column list, left to right, and the
// column list itself is deleted. Returns the ids of the recreated blocks.
func (s *Service) UnwrapColumns(ctx context.Context, pageID, columnListID string) ([]string, error) {
	columns, err := s.ReadColumns(ctx, columnListID)
	if err != nil {
		return nil, err
	}

	var flattened []*block.Block
	for _, col := range columns {
		for _, child := range col.Children {
			flattened = append(flattened, child.Clone())
		}
	}

	var created []string
	if len(flattened) > 0 {
		created, err = s.client.AppendChildren(ctx, pageID, flattened, columnListID)
		if err != nil {
			return nil, err
		}
	}

	script := diff.Script{{
		Kind:     diff.OpDelete,
		TargetID: columnListID,
		Current:  &block.Block{ID: columnListID, Kind: block.KindColumnList, HasChildren: true},
	}}
	if _, err := s.exec.Execute(ctx, pageID, script, sync.Options{}); err != nil {
		return created, fmt.Errorf("content recreated but column list %s not deleted: %w", columnListID, err)
	}

	s.logger.Info("Column list unwrapped",
		zap.String("column_list_id", columnListID),
		zap.Int("blocks", len(created)))
	return created, nil
}
