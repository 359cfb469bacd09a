package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/pipeline"
)

var (
	postCategory string
	postForce    bool
	postGreen    bool
)

var postCmd = &cobra.Command{
	Use:   "post <keyword>",
	Short: "Generate and publish one post for a topic keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		doc, err := a.pipeline.ProcessKeyword(context.Background(), args[0], pipeline.Options{
			CategoryOverride: postCategory,
			Evergreen:        postGreen,
			Force:            postForce,
			DryRun:           dryRun,
			Draft:            draft,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ %s\n", doc.Title)
		fmt.Printf("   category: %s  template: %s  sections: %d  status: %s\n",
			doc.Category, doc.TemplateID, len(doc.Sections), doc.Status)
		if dryRun {
			fmt.Println(doc.ProcessedHTML)
		}
		return nil
	},
}

func init() {
	postCmd.Flags().StringVar(&postCategory, "category", "", "force a category by name instead of classifying")
	postCmd.Flags().BoolVar(&postForce, "force", false, "bypass the duplicate-history guard")
	postCmd.Flags().BoolVar(&postGreen, "evergreen", false, "use evergreen templates and timeless phrasing")
	rootCmd.AddCommand(postCmd)
}
