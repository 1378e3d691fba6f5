package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookvoice/internal/preflight"
	"bookvoice/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var (
		apiKey     string
		skipSpeech bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories and backend connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checkCfg := *cfg
			if key := strings.TrimSpace(apiKey); key != "" {
				checkCfg.Speech.APIKey = key
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			printSectionHeader(out, "Preflight")

			results := preflight.RunAll(cmd.Context(), &checkCfg, skipSpeech)
			for _, result := range results {
				fmt.Fprintln(out, renderResult(result, colorize))
			}
			if skipSpeech {
				fmt.Fprintln(out, renderStatusLine("Speech backend", statusWarn, "skipped", colorize))
			}

			if preflight.Failed(results) {
				return services.Wrap(services.ErrConfiguration, "check", "preflight", "one or more checks failed", nil)
			}
			fmt.Fprintln(out, "\nAll checks passed.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "Speech API key (falls back to OPENAI_API_KEY or speech.api_key)")
	cmd.Flags().BoolVar(&skipSpeech, "skip-speech", false, "Skip the speech backend check")
	return cmd
}
