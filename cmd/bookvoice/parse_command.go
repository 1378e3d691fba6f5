package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bookvoice/internal/dialogue"
	"bookvoice/internal/logging"
	"bookvoice/internal/runlog"
	"bookvoice/internal/services"
	"bookvoice/internal/services/llm"
)

const defaultDialogueOutput = "dialogue_output.json"

func newParseCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		model      string
		baseURL    string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "parse <input>",
		Short: "Attribute book dialogue to speakers with a language model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "parse")

			attribution := cfg.Attribution
			if strings.TrimSpace(model) != "" {
				attribution.Model = strings.TrimSpace(model)
			}
			if strings.TrimSpace(baseURL) != "" {
				attribution.BaseURL = strings.TrimSpace(baseURL)
			}
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return services.Wrap(services.ErrValidation, "parse", "flags", "--workers must be at least 1", nil)
				}
				attribution.Workers = workers
			}

			inputPath := args[0]
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reading book from %s...\n", inputPath)
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return services.Wrap(services.ErrNotFound, "parse", "read input", inputPath, err)
			}

			client := llm.NewClient(llm.Config{
				BaseURL:        attribution.BaseURL,
				Model:          attribution.Model,
				TimeoutSeconds: attribution.TimeoutSeconds,
				Temperature:    attribution.Temperature,
				TopP:           attribution.TopP,
			}, llm.WithRetryMaxAttempts(attribution.RetryAttempts))

			progress := newProgressReporter(cmd.ErrOrStderr(), "attributing")
			parser := dialogue.NewParser(
				dialogue.NewAttributor(client,
					dialogue.WithTimeout(cfg.AttributionTimeout()),
					dialogue.WithLogger(logger),
				),
				dialogue.WithWorkers(attribution.Workers),
				dialogue.WithParserLogger(logger),
				dialogue.WithProgress(progress.update),
			)

			ledger, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer ledger.Close()

			return recordRun(cmd.Context(), ledger, logger, runlog.KindParse, inputPath, outputPath,
				func(runCtx context.Context) (stageOutcome, error) {
					logging.WithContext(runCtx, logger).Info("parse started",
						logging.String("input", inputPath),
						logging.String("model", client.Model()),
						logging.Int("workers", attribution.Workers),
					)
					result, err := parser.Parse(runCtx, string(data))
					progress.finish()
					if err != nil {
						return stageOutcome{}, err
					}
					return finishParse(out, result, outputPath)
				})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultDialogueOutput, "Output JSON file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Text backend model (overrides attribution.model)")
	cmd.Flags().StringVar(&baseURL, "url", "", "Text backend URL (overrides attribution.base_url)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Lines attributed concurrently (overrides attribution.workers)")
	return cmd
}

func finishParse(out io.Writer, result *dialogue.Result, outputPath string) (stageOutcome, error) {
	lines := result.Record.Lines()
	outcome := stageOutcome{counts: runlog.Counts{
		Total:     len(lines),
		Succeeded: result.Outcomes[dialogue.OutcomeLabeled] + result.Outcomes[dialogue.OutcomeSentinel],
		Skipped:   result.Outcomes[dialogue.OutcomeEmpty],
		Failed:    result.Outcomes[dialogue.OutcomeBackendError],
	}}
	fmt.Fprintf(out, "Found %s potential dialogue lines\n", humanize.Comma(int64(len(lines))))
	if len(lines) == 0 {
		fmt.Fprintln(out, "No dialogue found.")
		outcome.message = "no dialogue found"
		return outcome, nil
	}

	if err := dialogue.Save(outputPath, result.Record.Export()); err != nil {
		return outcome, services.Wrap(services.ErrValidation, "parse", "save record", outputPath, err)
	}
	fmt.Fprintf(out, "Results saved to %s\n", outputPath)

	printParseSummary(out, result.Record.Summary(), result.Outcomes)
	fmt.Fprintf(out, "\nDone! Check %s for detailed results.\n", outputPath)
	outcome.message = fmt.Sprintf("%d characters", len(result.Record.Characters()))
	return outcome, nil
}

func printParseSummary(out io.Writer, summary dialogue.Summary, outcomes map[dialogue.Outcome]int) {
	printSectionHeader(out, "Parsing summary")
	fmt.Fprintf(out, "Total dialogue lines processed: %d\n", summary.TotalLines)
	fmt.Fprintf(out, "Characters identified: %d\n", len(summary.Characters))
	if failed := outcomes[dialogue.OutcomeBackendError]; failed > 0 {
		fmt.Fprintf(out, "Backend failures: %d (recorded with an empty speaker)\n", failed)
	}

	if len(summary.Characters) > 0 {
		rows := make([][]string, 0, len(summary.Characters))
		for _, c := range summary.Characters {
			rows = append(rows, []string{c.Speaker, strconv.Itoa(c.Lines)})
		}
		fmt.Fprintln(out, renderTable([]string{"Character", "Lines"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	fmt.Fprintln(out, "Confidence distribution:")
	fmt.Fprintf(out, "  - High confidence (>0.7): %d\n", summary.High)
	fmt.Fprintf(out, "  - Medium confidence (0.3-0.7): %d\n", summary.Medium)
	fmt.Fprintf(out, "  - Low confidence (≤0.3): %d\n", summary.Low)
}
