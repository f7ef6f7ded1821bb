package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"recipe-pipeline/feature/recipes"
	"recipe-pipeline/feature/recipes/generate"
	"recipe-pipeline/feature/recipes/models"

	"github.com/spf13/cobra"
)

var (
	generateNames string
	generateFile  string
)

// generateCmd runs a bulk generation batch and prints its progress.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate recipes for a list of dish names",
	Long: `Generates a recipe for every name that is not already stored. Generated
recipes that overlap an existing one are merged into it instead of being
created. Interrupting the command stops further groups; in-flight names finish.`,
	Example: `  generate --names "Shakshuka, Dal Makhani"
  generate --file names.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := generationInput()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runGenerate(ctx, names)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateNames, "names", "", "Comma separated dish names")
	generateCmd.Flags().StringVar(&generateFile, "file", "", "File with one dish name per line")
	generateCmd.MarkFlagsOneRequired("names", "file")
	RootCmd.AddCommand(generateCmd)
}

func generationInput() (string, error) {
	parts := []string{generateNames}
	if generateFile != "" {
		data, err := os.ReadFile(generateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", generateFile, err)
		}
		parts = append(parts, strings.Split(string(data), "\n")...)
	}
	return strings.Join(parts, ","), nil
}

func runGenerate(ctx context.Context, names string) error {
	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	events, err := recipes.NewService(env.deps).StartGeneration(ctx, names)
	if err != nil {
		return err
	}

	var (
		failed   error
		finished bool
		tally    generate.DonePayload
	)
	for ev := range events {
		switch p := ev.Data.(type) {
		case generate.InitPayload:
			tally.Total = p.Total
			fmt.Printf("Batch %s: %s\n", p.BatchID, p.Message)
		case generate.RecipePayload:
			tally.Count(p)
			fmt.Printf("[%d/%d] %-30s %s\n", p.Progress, p.Total, p.Name, describeOutcome(p))
		case generate.DonePayload:
			finished = true
			fmt.Printf("\n%s\n", p.Message)
			if p.Cancelled {
				failed = context.Canceled
			}
		case generate.ErrorPayload:
			finished = true
			failed = errors.New(p.Message)
		}
	}
	if !finished {
		// The stream closed without its done event; report what was seen.
		tally.Cancelled = true
		fmt.Printf("\n%s\n", tally.Summary())
		failed = context.Canceled
	}
	return failed
}

func describeOutcome(p generate.RecipePayload) string {
	switch p.Status {
	case models.StatusSuccess:
		return "\033[32mcreated\033[0m " + p.ID
	case models.StatusMerged:
		return fmt.Sprintf("\033[36mmerged\033[0m into %s (%.0f%% overlap)", p.ExistingName, p.OverlapScore*100)
	case models.StatusSkipped:
		return "\033[33mskipped\033[0m, exists as " + p.ExistingName
	default:
		return "\033[31mfailed\033[0m " + p.Message
	}
}
