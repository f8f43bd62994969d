package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/feasibility-be/utils"
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Print an admin token for the upload endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			return errors.New("--ttl must be positive")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}

		token, err := utils.GenerateAdminToken(cfg.JWTSecret, subject, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueTokenCmd)

	issueTokenCmd.Flags().StringP("subject", "s", "admin", "Token subject")
	issueTokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
