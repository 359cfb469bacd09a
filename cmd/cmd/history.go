package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/history"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the publication history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent publications",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.NewStore(cfg.App.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(historyDays)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("no publications in the last %d days\n", historyDays)
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  [%s] %s\n", rec.PublishedAt.Format("2006-01-02 15:04"), rec.Category, rec.Keyword)
			fmt.Printf("    %s (%s) %s\n", rec.Title, rec.Status, rec.URL)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all publication records",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.NewStore(cfg.App.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("publication history cleared")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyDays, "days", 30, "trailing window in days")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
