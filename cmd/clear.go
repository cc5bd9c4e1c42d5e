package cmd

import (
	"context"
	"fmt"

	"notion-sync/core/config"
	"notion-sync/core/logger"
	"notion-sync/core/notion"
	"notion-sync/feature/page"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// clearCmd deletes every top-level block of a page.
var clearCmd = &cobra.Command{
	Use:   "clear <page-url-or-id>",
	Short: "Delete all blocks from a page",
	Long: `Clear removes every top-level block from a page, cascading through
nested children. Already archived blocks are skipped.

Examples:
  # Clear with interactive confirmation
  notion-sync clear https://notion.so/My-Page-abc123...

  # Clear without prompting
  notion-sync clear abc123... --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")

	RootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pageID, err := notion.ExtractPageID(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := notion.NewClient(cfg.Notion, l)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	svc := page.NewService(client, l)

	blocks, err := svc.FetchBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}
	if len(blocks) == 0 {
		l.Info("Page is already empty.")
		return nil
	}

	if !confirmChanges(len(blocks)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	deleted, err := svc.Clear(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to clear page (deleted %d blocks): %w", deleted, err)
	}

	l.Info("Page cleared", zap.String("page_id", pageID), zap.Int("deleted", deleted))
	return nil
}
