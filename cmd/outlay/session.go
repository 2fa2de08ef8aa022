package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlay-app/outlay/internal/cli"
)

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Run a full evaluation pass",
		Long: `Run everything that should happen when the tracker starts up:
materialize due recurring expenses, close any months crossed since the
last session, and report budget alerts for the current period.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, err := initEngine(store)
			if err != nil {
				return err
			}

			report, err := eng.RunSession(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderSessionReport(report))
			return nil
		},
	}
}
