package cli

import (
	"context"
	"fmt"
	"io"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/logger"

	"github.com/spf13/cobra"
)

// NewCategoriesCmd prints the category list, live or fallback.
func NewCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List trivia categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			rt := newRuntime(cfg, logger.Get())
			defer rt.close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return printCategories(cmd.OutOrStdout(), rt.source.FetchCategories(ctx))
		},
	}
}

func printCategories(w io.Writer, categories []domain.Category) error {
	for _, c := range categories {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name); err != nil {
			return err
		}
	}
	return nil
}
