package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/commentpanel/internal/adapter/driven/sqlite"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("invalid --limit %d: must be positive", limit)
			}

			db, runs, err := a.openRunStore()
			if err != nil {
				return err
			}
			defer a.closeDB(db)

			recent, err := runs.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printer.Runs(recent)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", sqliteadapter.DefaultRunLimit, "number of runs to show")
	return cmd
}
