package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wcsec/go-venue-intel/internal/analysis"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Backfill composite risk scores for crime records",
	Long: `Computes the weighted 0-100 risk score for every crime record that
does not have one yet and writes the scores back to the database.
Already-scored records are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		analyzer := analysis.NewAnalyzer(db)
		updated, err := analyzer.BackfillRiskScores(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("updated %d risk scores\n", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
