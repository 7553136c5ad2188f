package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wcsec/go-venue-intel/internal/analysis"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate offline risk and summary reports",
	Long: `Runs the venue risk assessment and the dataset summary and writes
them to the output directory: risk_assessment.json or .csv depending on
--format, plus summary.json.

Examples:
  # JSON report with the default 50 km radius
  report --out ./reports

  # CSV risk table for a tighter radius
  report --radius 25 --out ./reports --format csv`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.Float64("radius", analysis.DefaultRadiusKM, "crime proximity radius in km")
	f.String("out", ".", "output directory")
	f.String("format", "json", "risk report format: json or csv")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	radius, _ := cmd.Flags().GetFloat64("radius")
	outDir, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	analyzer := analysis.NewAnalyzer(db)
	ctx := cmd.Context()

	risks, err := analyzer.RiskAssessment(ctx, radius)
	if err != nil {
		return err
	}

	riskPath := filepath.Join(outDir, "risk_assessment."+format)
	riskFile, err := os.Create(riskPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", riskPath, err)
	}
	defer riskFile.Close()

	switch format {
	case "csv":
		err = analysis.WriteRiskCSV(riskFile, risks)
	default:
		err = analysis.WriteRiskJSON(riskFile, risks)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", riskPath, err)
	}

	summary, err := analyzer.Summary(ctx)
	if err != nil {
		return err
	}

	summaryPath := filepath.Join(outDir, "summary.json")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", summaryPath, err)
	}
	defer summaryFile.Close()

	if err := analysis.WriteSummaryJSON(summaryFile, summary); err != nil {
		return fmt.Errorf("write %s: %w", summaryPath, err)
	}

	fmt.Printf("wrote %s and %s (%d venues assessed, radius %.0f km)\n",
		riskPath, summaryPath, len(risks), radius)
	return nil
}
