package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wcsec/go-venue-intel/internal/config"
	"github.com/wcsec/go-venue-intel/internal/logging"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "intelctl",
	Short: "Batch tooling for the venue intelligence database",
	Long: `Loads venue, migration-incident, drug-seizure and crime CSV datasets
into the service database, backfills crime risk scores, and produces
offline risk reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.Logging.Level)

		return nil
	},
}

func openStore() (*repository.SQLiteDB, error) {
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DB.Path, err)
	}
	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
