package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-equipment-analytics/internal/app"
	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/internal/model"
)

var (
	demoUsername string
	demoPassword string
)

var createDemoUserCmd = &cobra.Command{
	Use:   "create-demo-user",
	Short: "Create the demo user, or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		a, err := app.Open(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			return err
		}
		u := model.User{Username: demoUsername, PasswordHash: hash}
		created, err := a.Store.UpsertUser(cmd.Context(), &u)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created demo user %q\n", u.Username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Demo user %q already exists; password reset\n", u.Username)
		}
		return nil
	},
}

func init() {
	createDemoUserCmd.Flags().StringVar(&demoUsername, "username", "demo", "demo username")
	createDemoUserCmd.Flags().StringVar(&demoPassword, "password", "demo1234", "demo password")
	rootCmd.AddCommand(createDemoUserCmd)
}
