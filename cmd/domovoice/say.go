package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"domovoice/internal/application"
)

var sayCmd = &cobra.Command{
	Use:   "say <utterance>",
	Short: "Handle one utterance and print the response",
	Long: `Runs a single utterance through the command handlers and prints the
sentence the assistant would speak.

Examples:
  domovoice say "turn off the kitchen light"
  domovoice say increase the temperature`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stderrSession()
		if err != nil {
			return err
		}
		utterance := strings.Join(args, " ")
		handler := application.NewHandler(s.client, s.logger)
		return handler.Handle(cmd.Context(), utterance, application.WriterSpeaker{W: cmd.OutOrStdout()})
	},
}

var validCmd = &cobra.Command{
	Use:   "valid <utterance>",
	Short: "Report whether an utterance looks like a home automation command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), application.IsRelevant(strings.Join(args, " ")))
		return err
	},
}
