package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/pipeline"
)

var evergreenForce bool

var evergreenCmd = &cobra.Command{
	Use:   "evergreen",
	Short: "Publish the next keyword from the evergreen rotation",
	Long: `Takes the next keyword from the configured evergreen rotation
(content.evergreen_keywords), advancing a persisted cursor so repeated
invocations cycle through the whole list before wrapping around.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Content.EvergreenKeywords) == 0 {
			return fmt.Errorf("content.evergreen_keywords is empty")
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		keyword, err := a.history.NextEvergreen(cfg.Content.EvergreenKeywords)
		if err != nil {
			return err
		}

		doc, err := a.pipeline.ProcessKeyword(context.Background(), keyword, pipeline.Options{
			Evergreen: true,
			Force:     evergreenForce,
			DryRun:    dryRun,
			Draft:     draft,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ %s (evergreen: %s)\n", doc.Title, keyword)
		return nil
	},
}

func init() {
	evergreenCmd.Flags().BoolVar(&evergreenForce, "force", false, "bypass the duplicate-history guard")
	rootCmd.AddCommand(evergreenCmd)
}
