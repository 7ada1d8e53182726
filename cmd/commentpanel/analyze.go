package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		sample    bool
		noHistory bool
		filter    string
	)

	cmd := &cobra.Command{
		Use:   "analyze [url]",
		Short: "Analyze one video and print the panel",
		Long: `Analyze the comments of the video at url through the backend and print the
resulting panel. With --sample the backend's demo payload is loaded instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sample && len(args) == 0 {
				return errors.New("a video URL is required unless --sample is set")
			}

			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}

			var store driven.RunStore
			if !noHistory {
				db, runs, err := a.openRunStore()
				if err != nil {
					return err
				}
				defer a.closeDB(db)
				store = runs
			}

			ctrl, svc := a.newAnalysis(store)

			if sample {
				_, err = svc.LoadSample(cmd.Context())
			} else {
				_, err = svc.Analyze(cmd.Context(), args[0])
			}

			ctrl.Filter(f)
			if renderErr := a.printer.Panel(viewmodel.Current(ctrl, nil, nil, time.Now())); renderErr != nil {
				return renderErr
			}

			if err != nil {
				return fmt.Errorf("analysis failed (%s): %w", model.ErrorKind(err), err)
			}

			stats := ctrl.DerivedStats()
			a.printer.Success("analyzed %d comments", stats.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "load the backend's sample payload instead of a video")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run in the history database")
	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "comment filter: all, positive, negative, or neutral")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the analysis backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, svc := a.newAnalysis(nil)

			health, err := svc.BackendHealth(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend health: %w", err)
			}

			a.printer.BackendHealth(health)
			return nil
		},
	}
}
