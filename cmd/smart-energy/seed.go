package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/InsiderP/smart-energy/internal/catalog"
	energypostgres "github.com/InsiderP/smart-energy/internal/energy/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the device catalog and exit",
	Long: `Seed inserts the fixed device catalog when the devices table is
empty. It is safe to run repeatedly; a populated catalog is left
untouched.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	seeder := catalog.NewSeeder(energypostgres.NewDeviceRepository(db), logger)
	return seeder.Seed(ctx)
}
