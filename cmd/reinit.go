package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Drop and recreate the document collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if err := a.store.ReInit(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "collection %s recreated\n", cfg.WeaviateStoreConfig.Collection)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reinitCmd)
}
