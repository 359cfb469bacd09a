package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postforge/internal/config"
	"postforge/internal/logger"
)

var (
	cfgFile string
	dryRun  bool
	draft   bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "Postforge generates and publishes blog posts from topic keywords.",
	Long: `Postforge is a content automation pipeline: it classifies a topic
keyword, picks a structural template, generates an HTML article with an
AI backend, post-processes the draft (images, official links, affiliate
blocks, humanization), and publishes the result to a WordPress-style CMS
while keeping a publication history to avoid duplicate topics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Init(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.postforge.yaml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "run the full pipeline but skip the CMS publish")
	rootCmd.PersistentFlags().BoolVar(&draft, "draft", false, "publish as a draft instead of going live")
}
