package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bookvoice/internal/dialogue"
	"bookvoice/internal/logging"
	"bookvoice/internal/runlog"
	"bookvoice/internal/services"
	"bookvoice/internal/services/speech"
	"bookvoice/internal/synthesis"
)

const defaultAudioOutput = "audiobook_output"

func newSynthesizeCommand(ctx *commandContext) *cobra.Command {
	var (
		apiKey    string
		outputDir string
		maxChars  int
	)

	cmd := &cobra.Command{
		Use:   "synthesize <dialogue.json> <voices.json>",
		Short: "Generate per-line audio from a dialogue record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "synthesize")

			key := strings.TrimSpace(apiKey)
			if key == "" {
				key = cfg.Speech.APIKey
			}
			if key == "" {
				return services.Wrap(services.ErrConfiguration, "synthesize", "api key",
					"required via --api-key, OPENAI_API_KEY or speech.api_key", nil)
			}
			chunkLimit := cfg.Speech.MaxChunkChars
			if cmd.Flags().Changed("max-chars") {
				if maxChars < 1 {
					return services.Wrap(services.ErrValidation, "synthesize", "flags", "--max-chars must be at least 1", nil)
				}
				chunkLimit = maxChars
			}

			dialoguePath, voicesPath := args[0], args[1]
			doc, err := dialogue.Load(dialoguePath)
			if err != nil {
				return services.Wrap(services.ErrValidation, "synthesize", "load dialogue", dialoguePath, err)
			}

			voices, err := synthesis.LoadVoices(voicesPath)
			if err != nil {
				logging.WarnWithContext(logger, "voice config unusable, using fallback voice", "voice_config_invalid",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "fix the voice file; see character_voices and default"),
					logging.String(logging.FieldImpact, "every speaker uses the alloy fallback voice"),
				)
				voices = synthesis.VoiceTable{}
			}

			client := speech.NewClient(speech.Config{
				APIKey:         key,
				BaseURL:        cfg.Speech.BaseURL,
				Model:          cfg.Speech.Model,
				TimeoutSeconds: cfg.Speech.TimeoutSeconds,
				RetryAttempts:  cfg.Speech.RetryAttempts,
			})

			out := cmd.OutOrStdout()
			progress := newProgressReporter(cmd.ErrOrStderr(), "synthesizing")
			orch := synthesis.NewOrchestrator(client, voices, outputDir,
				synthesis.WithMaxChunkChars(chunkLimit),
				synthesis.WithRequestInterval(cfg.RequestInterval()),
				synthesis.WithLogger(logger),
				synthesis.WithProgress(progress.update),
			)

			ledger, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer ledger.Close()

			return recordRun(cmd.Context(), ledger, logger, runlog.KindSynthesize, dialoguePath, outputDir,
				func(runCtx context.Context) (stageOutcome, error) {
					logging.WithContext(runCtx, logger).Info("synthesis started",
						logging.String("dialogue", dialoguePath),
						logging.Int("lines", len(doc.Dialogue)),
						logging.Int("voices", voices.Len()),
					)
					result, err := orch.Run(runCtx, doc.Dialogue)
					progress.finish()
					outcome := synthesisOutcome(result)
					if err != nil {
						if errors.Is(err, synthesis.ErrOutputLocked) {
							return outcome, services.Wrap(services.ErrValidation, "synthesize", "lock output", "", err)
						}
						return outcome, err
					}
					return finishSynthesis(out, result, outputDir, outcome)
				})
		},
	}

	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "Speech API key (falls back to OPENAI_API_KEY or speech.api_key)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", defaultAudioOutput, "Output directory")
	cmd.Flags().IntVar(&maxChars, "max-chars", synthesis.DefaultMaxChunkChars, "Maximum characters per synthesis request")
	return cmd
}

func synthesisOutcome(result *synthesis.Result) stageOutcome {
	if result == nil {
		return stageOutcome{}
	}
	return stageOutcome{counts: runlog.Counts{
		Total:     result.Synthesized + result.Skipped + result.Failed,
		Succeeded: result.Synthesized,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	}}
}

func finishSynthesis(out io.Writer, result *synthesis.Result, outputDir string, outcome stageOutcome) (stageOutcome, error) {
	if len(result.Records) == 0 {
		fmt.Fprintln(out, "No audio files were generated.")
		outcome.message = "no audio files"
		return outcome, nil
	}

	if _, err := synthesis.WritePlaylist(outputDir, result.Records); err != nil {
		return outcome, services.Wrap(services.ErrValidation, "synthesize", "write playlist", outputDir, err)
	}
	summary := synthesis.BuildSummary(outputDir, result.Records)
	if _, err := synthesis.WriteSummary(outputDir, summary); err != nil {
		return outcome, services.Wrap(services.ErrValidation, "synthesize", "write summary", outputDir, err)
	}

	printSectionHeader(out, "TTS generation complete")
	fmt.Fprintf(out, "Total files generated: %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Output directory: %s\n", summary.OutputDirectory)
	fmt.Fprintf(out, "New: %d  Existing: %d  Failed: %d  Empty lines: %d\n",
		result.Synthesized, result.Skipped, result.Failed, result.EmptyLines)
	if size := totalSize(result.Records); size > 0 {
		fmt.Fprintf(out, "Audio on disk: %s\n", humanize.Bytes(size))
	}
	fmt.Fprintf(out, "Speakers processed: %d\n", len(summary.Speakers))

	speakers := make([]string, 0, len(summary.Speakers))
	for speaker := range summary.Speakers {
		speakers = append(speakers, speaker)
	}
	slices.Sort(speakers)
	rows := make([][]string, 0, len(speakers))
	for _, speaker := range speakers {
		rows = append(rows, []string{speaker, strconv.Itoa(summary.Speakers[speaker])})
	}
	fmt.Fprintln(out, renderTable([]string{"Speaker", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "\nCheck %s/ for all generated audio files and playlist.\n", outputDir)

	outcome.message = fmt.Sprintf("%d files", summary.TotalFiles)
	return outcome, nil
}

func totalSize(records []synthesis.AudioFileRecord) uint64 {
	var total uint64
	for _, r := range records {
		if info, err := os.Stat(r.FilePath); err == nil {
			total += uint64(info.Size())
		}
	}
	return total
}
