package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go-equipment-analytics/internal/app"
	"go-equipment-analytics/internal/pipeline"
)

var (
	pruneUser string
	pruneKeep int
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy to one user's datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneUser == "" {
			return errors.New("--user is required")
		}
		if err := loadConfig(); err != nil {
			return err
		}
		a, err := app.Open(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		userID := pruneUser
		if u, err := a.Store.GetUserByUsername(cmd.Context(), pruneUser); err == nil {
			userID = u.ID
		}

		keep := cfg.RetentionKeep
		if cmd.Flags().Changed("keep") {
			keep = pruneKeep
		}
		ret := pipeline.NewRetention(a.Store, a.Files, log, keep)
		pruned, err := ret.Enforce(cmd.Context(), userID)
		if err != nil {
			return err
		}
		for _, d := range pruned {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s %s (%s)\n", d.ID, d.Filename, d.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d dataset(s), keeping at most %d\n", len(pruned), keep)
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&pruneUser, "user", "", "user id or username")
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", pipeline.DefaultMaxKept, "datasets to keep")
	rootCmd.AddCommand(pruneCmd)
}
