package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available with the configured API keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		available, err := llm.ListModels(cmd.Context(), cfg.LLM)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No API keys configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROVIDER\tMODEL\tNAME")
		for _, m := range available {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Provider, m.ID, m.DisplayName)
		}
		return tw.Flush()
	},
}
