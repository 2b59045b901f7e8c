package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/freshcart/storefront/internal/core/service"
	mongodb "github.com/freshcart/storefront/internal/infrastructure/db/mongo"
	"github.com/freshcart/storefront/pkg/logger"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin account management",
}

var adminSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or reset the bootstrap admin account",
	Long: `Reconcile the admin account described by ADMIN_EMAIL, ADMIN_PASSWORD and
ADMIN_NAME: it is created when missing, otherwise its name and password are
reset. Running the command again changes nothing but the password hash.`,
	RunE: seedAdmin,
}

func init() {
	adminCmd.AddCommand(adminSeedCmd)
	rootCmd.AddCommand(adminCmd)
}

func seedAdmin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close(context.Background())

	if !env.cfg.Admin.SeedEnabled() {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if err := mongodb.EnsureIndexes(ctx, env.db); err != nil {
		return err
	}

	_, err = service.EnsureAdmin(ctx, mongodb.NewAdminRepository(env.db), service.AdminCredentials{
		Email:    env.cfg.Admin.Email,
		Password: env.cfg.Admin.Password,
		Name:     env.cfg.Admin.Name,
	}, logger.Component("admin-seeder"))
	return err
}
