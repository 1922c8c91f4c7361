package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vinzlac/mcp-server-brave-test/internal/bootstrap"
	"github.com/vinzlac/mcp-server-brave-test/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research <server-script> <query> <question>",
	Short: "Search the web, then ask a question about the results",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		ts, err := bootstrap.ConnectToolServer(ctx, args[0], cfg, nil, logger)
		if err != nil {
			return err
		}
		defer ts.Close()

		out := cmd.OutOrStdout()
		res, err := research.Run(ctx, ts.Invoker, args[1], args[2], logger)
		if res.Results != nil {
			fmt.Fprintf(out, "\n%s\n", research.Summary(res.Results))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRéponse :\n----------\n%s\n", res.Answer)
		return nil
	},
}
