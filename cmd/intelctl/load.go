package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wcsec/go-venue-intel/internal/ingestion"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load CSV datasets into the database",
}

var loadVenuesCmd = &cobra.Command{
	Use:   "venues <file.csv>",
	Short: "Load the venue reference table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		added, err := loadVenues(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d venues\n", added)
		return nil
	},
}

var loadIncidentsCmd = &cobra.Command{
	Use:   "incidents <file.csv>",
	Short: "Load IOM migration incidents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		added, skipped, err := loadIncidents(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d incidents (%d duplicates skipped)\n", added, skipped)
		return nil
	},
}

var loadSeizuresCmd = &cobra.Command{
	Use:   "seizures <file.csv>",
	Short: "Load CBP drug seizures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		added, skipped, err := loadSeizures(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d seizures (%d duplicates skipped)\n", added, skipped)
		return nil
	},
}

var loadCrimeCmd = &cobra.Command{
	Use:   "crime <file.csv>",
	Short: "Load NIBRS crime statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		added, skipped, err := loadCrime(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d crime records (%d duplicates skipped)\n", added, skipped)
		return nil
	},
}

var loadAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Load the standard dataset files from a directory",
	Long: `Loads venues.csv, incidents.csv, seizures.csv and crime.csv from the
given directory. Missing files are skipped. Datasets load concurrently,
one goroutine per file.`,
	RunE: runLoadAll,
}

func init() {
	loadAllCmd.Flags().String("dir", ".", "directory holding the dataset CSV files")

	loadCmd.AddCommand(loadVenuesCmd, loadIncidentsCmd, loadSeizuresCmd, loadCrimeCmd, loadAllCmd)
	rootCmd.AddCommand(loadCmd)
}

func runLoadAll(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	type loader struct {
		file string
		run  func(ctx context.Context, store repository.Store, path string) error
	}
	loaders := []loader{
		{"venues.csv", func(ctx context.Context, store repository.Store, path string) error {
			added, err := loadVenues(ctx, store, path)
			if err == nil {
				fmt.Printf("venues.csv: %d loaded\n", added)
			}
			return err
		}},
		{"incidents.csv", func(ctx context.Context, store repository.Store, path string) error {
			added, skipped, err := loadIncidents(ctx, store, path)
			if err == nil {
				fmt.Printf("incidents.csv: %d loaded, %d skipped\n", added, skipped)
			}
			return err
		}},
		{"seizures.csv", func(ctx context.Context, store repository.Store, path string) error {
			added, skipped, err := loadSeizures(ctx, store, path)
			if err == nil {
				fmt.Printf("seizures.csv: %d loaded, %d skipped\n", added, skipped)
			}
			return err
		}},
		{"crime.csv", func(ctx context.Context, store repository.Store, path string) error {
			added, skipped, err := loadCrime(ctx, store, path)
			if err == nil {
				fmt.Printf("crime.csv: %d loaded, %d skipped\n", added, skipped)
			}
			return err
		}},
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, l := range loaders {
		path := filepath.Join(dir, l.file)
		if _, err := os.Stat(path); err != nil {
			slog.Warn("dataset file missing, skipping", "file", path)
			continue
		}
		run := l.run
		g.Go(func() error {
			return run(ctx, db, path)
		})
	}
	return g.Wait()
}

func loadVenues(ctx context.Context, store repository.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	venues, err := ingestion.ParseVenuesCSV(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	var added int
	for _, v := range venues {
		if err := store.AddVenue(ctx, v); err != nil {
			return added, fmt.Errorf("insert venue %q: %w", v.Name, err)
		}
		added++
	}
	return added, nil
}

func loadIncidents(ctx context.Context, store repository.Store, path string) (added, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	incidents, err := ingestion.ParseIOMCSV(f)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, in := range incidents {
		exists, err := store.IncidentExists(ctx, in.ID)
		if err != nil {
			return added, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		if err := store.AddIncident(ctx, in); err != nil {
			return added, skipped, fmt.Errorf("insert incident %s: %w", in.ID, err)
		}
		added++
	}
	return added, skipped, nil
}

func loadSeizures(ctx context.Context, store repository.Store, path string) (added, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	seizures, err := ingestion.ParseCBPCSV(f)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, z := range seizures {
		exists, err := store.SeizureExists(ctx, z.ID)
		if err != nil {
			return added, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		if err := store.AddSeizure(ctx, z); err != nil {
			return added, skipped, fmt.Errorf("insert seizure %s: %w", z.ID, err)
		}
		added++
	}
	return added, skipped, nil
}

func loadCrime(ctx context.Context, store repository.Store, path string) (added, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ingestion.ParseNIBRSCSV(f)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, c := range records {
		// Agency-year rows have no upstream dedupe pass, so duplicate
		// primary keys just mean the file was loaded before.
		if err := store.AddCrimeRecord(ctx, c); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped, nil
}
