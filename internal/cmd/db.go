package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	mongodb "github.com/freshcart/storefront/internal/infrastructure/db/mongo"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbIndexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the collection indexes",
	Long: `Create every index the API relies on, including the unique indexes on
user and admin email, cart owner and order number. Safe to run repeatedly.`,
	RunE: createIndexes,
}

func init() {
	dbCmd.AddCommand(dbIndexesCmd)
	rootCmd.AddCommand(dbCmd)
}

func createIndexes(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close(context.Background())

	if err := mongodb.EnsureIndexes(ctx, env.db); err != nil {
		return err
	}
	env.log.Info().Msg("indexes ensured")
	return nil
}
