package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recipe-pipeline/feature/recipes"
	"recipe-pipeline/feature/recipes/bulk"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/normalize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	bulkCSVPath     string
	bulkCSVObject   string
	bulkJSONPath    string
	bulkReason      string
	bulkDryRun      bool
	bulkYes         bool
	bulkReportPath  string
	bulkShowChanges bool
)

// bulkUpdateCmd applies a file of recipe corrections from the command line.
var bulkUpdateCmd = &cobra.Command{
	Use:   "bulk-update",
	Short: "Apply a CSV or JSON file of recipe corrections",
	Long: `Applies allow-listed field corrections to recipes identified by uuid or _id.

The file is always evaluated as a dry run first. The summary is printed and,
unless --dry-run is set, the changes are applied after confirmation.`,
	Example: `  # Preview a CSV file
  bulk-update --csv fixes.csv --dry-run

  # Apply a JSON file without prompting
  bulk-update --json fixes.json --reason "prep time audit" --yes

  # Re-run an archived upload
  bulk-update --csv-object uploads/2026/03/09/1a2b3c4d-fixes.csv --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkUpdate(cmd.Context())
	},
}

func init() {
	bulkUpdateCmd.Flags().StringVar(&bulkCSVPath, "csv", "", "CSV file with a uuid or _id column")
	bulkUpdateCmd.Flags().StringVar(&bulkCSVObject, "csv-object", "", "Key of an archived CSV upload")
	bulkUpdateCmd.Flags().StringVar(&bulkJSONPath, "json", "", "JSON file: an array of records or {records, reason}")
	bulkUpdateCmd.Flags().StringVar(&bulkReason, "reason", "", "Reason recorded on every update")
	bulkUpdateCmd.Flags().BoolVar(&bulkDryRun, "dry-run", false, "Only report what would change")
	bulkUpdateCmd.Flags().BoolVar(&bulkYes, "yes", false, "Apply without the confirmation prompt")
	bulkUpdateCmd.Flags().StringVar(&bulkReportPath, "report", "", "Write the final report as JSON to this file")
	bulkUpdateCmd.Flags().BoolVar(&bulkShowChanges, "changes", false, "Print every changed field")
	bulkUpdateCmd.MarkFlagsMutuallyExclusive("csv", "csv-object", "json")
	bulkUpdateCmd.MarkFlagsOneRequired("csv", "csv-object", "json")
	RootCmd.AddCommand(bulkUpdateCmd)
}

// bulkInput runs one pass of the selected input with the given options.
type bulkInput func(ctx context.Context, svc *recipes.Service, opts bulk.Options) (*bulk.Report, error)

func selectBulkInput() (bulkInput, string, error) {
	switch {
	case bulkCSVPath != "":
		data, err := os.ReadFile(bulkCSVPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", bulkCSVPath, err)
		}
		name := filepath.Base(bulkCSVPath)
		return func(ctx context.Context, svc *recipes.Service, opts bulk.Options) (*bulk.Report, error) {
			return svc.BulkUpdateCSV(ctx, name, data, opts)
		}, "", nil
	case bulkCSVObject != "":
		return func(ctx context.Context, svc *recipes.Service, opts bulk.Options) (*bulk.Report, error) {
			return svc.BulkUpdateArchivedCSV(ctx, bulkCSVObject, opts)
		}, "", nil
	default:
		data, err := os.ReadFile(bulkJSONPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", bulkJSONPath, err)
		}
		req, err := bulk.DecodeRequest(data)
		if err != nil {
			return nil, "", err
		}
		return func(ctx context.Context, svc *recipes.Service, opts bulk.Options) (*bulk.Report, error) {
			opts.Source = normalize.SourceJSON
			return svc.BulkUpdate(ctx, req.Records, opts)
		}, req.Reason, nil
	}
}

func runBulkUpdate(ctx context.Context) error {
	run, fileReason, err := selectBulkInput()
	if err != nil {
		return err
	}
	reason := bulkReason
	if reason == "" {
		reason = fileReason
	}

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close()
	svc := recipes.NewService(env.deps)

	preview, err := run(ctx, svc, bulk.Options{Reason: reason, DryRun: true})
	if err != nil {
		return err
	}
	printBulkReport(preview)

	if bulkDryRun {
		return writeBulkReport(preview)
	}
	if preview.Summary.Success == 0 {
		fmt.Println("\nNothing to apply.")
		return writeBulkReport(preview)
	}
	if !confirmBulkUpdate(preview.Summary.Success) {
		fmt.Println("Aborted.")
		return nil
	}

	report, err := run(ctx, svc, bulk.Options{Reason: reason})
	if err != nil {
		return err
	}
	env.logger.Info("Bulk update applied",
		zap.String("batch_id", report.BatchID),
		zap.Int("success", report.Summary.Success),
		zap.Int("failed", report.Summary.Failed),
	)
	printBulkReport(report)
	return writeBulkReport(report)
}

func printBulkReport(r *bulk.Report) {
	mode := "APPLIED"
	if r.DryRun {
		mode = "DRY RUN"
	}
	s := r.Summary
	fmt.Printf("\n--- Bulk Update (%s) ---\n", mode)
	fmt.Printf("Batch:       %s\n", r.BatchID)
	fmt.Printf("Source:      %s\n", r.Source)
	fmt.Printf("Total:       %d\n", s.Total)
	fmt.Printf("Success:     \033[32m%d\033[0m\n", s.Success)
	fmt.Printf("No changes:  %d\n", s.NoChanges)
	fmt.Printf("Not found:   \033[33m%d\033[0m\n", s.NotFound)
	fmt.Printf("Failed:      \033[31m%d\033[0m\n", s.Failed)

	for _, res := range r.Results {
		switch res.Status {
		case models.StatusSuccess:
			if !bulkShowChanges {
				continue
			}
			fmt.Printf("  row %d %s: %s\n", res.Row, identifier(res), strings.Join(res.ChangedFields, ", "))
			for _, ch := range res.Changes {
				fmt.Printf("      %s: %s -> %s\n", ch.Field, compact(ch.OldValue), compact(ch.NewValue))
			}
		case models.StatusNoChanges:
		default:
			fmt.Printf("  row %d %s: %s (%s)\n", res.Row, identifier(res), res.Status, res.Message)
		}
	}
	fmt.Println("-------------------------")
}

func identifier(r bulk.Result) string {
	if r.ID != "" {
		return r.ID
	}
	if r.UUID != nil {
		return "uuid " + r.UUID.String()
	}
	return "-"
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	if len(data) > 80 {
		return string(data[:77]) + "..."
	}
	return string(data)
}

func writeBulkReport(r *bulk.Report) error {
	if bulkReportPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(bulkReportPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", bulkReportPath)
	return nil
}

// confirmBulkUpdate prompts the user for confirmation or uses --yes flag.
func confirmBulkUpdate(n int) bool {
	if bulkYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nType 'yes' to update %d recipe(s): ", n)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
