package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/output"
	"github.com/vctools/vcadm/internal/services"
)

func (a *app) newEvacuateCommand() *cobra.Command {
	var (
		destination      string
		excludeNames     []string
		excludeTemplates bool
		dryRun           bool
		runAsync         bool
	)

	cmd := &cobra.Command{
		Use:   "evacuate-datastore SOURCE",
		Short: "Move every VM and template off a datastore",
		Long: `Relocates the config files and disks of every VM and template residing on
SOURCE to the destination datastore or datastore cluster. Destinations are
picked independently at random per disk and per config file, spreading load
across the pool. Templates are converted to machines for the duration of
their (always synchronous) relocation and converted back afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := a.connect(ctx)
			if err != nil {
				return err
			}

			svc := services.NewEvacuationService(conn, nil)
			outcome, err := svc.Evacuate(ctx, services.EvacuationParams{
				SourceLocation:   args[0],
				Destination:      destination,
				ExcludeNames:     excludeNames,
				ExcludeTemplates: excludeTemplates,
				DryRun:           dryRun,
				RunAsync:         runAsync,
			})
			if err != nil {
				return err
			}

			for _, skip := range outcome.Skipped {
				output.Warn("skipped %s: %s", skip.Name, skip.Reason)
			}
			for _, handle := range outcome.Handles {
				zap.S().Named("evacuate_cmd").Infow("task running",
					"object", handle.Object(),
					"task", handle.Reference().Value,
				)
			}

			return a.render(outcome.Results, "datastore "+args[0])
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", "", "destination datastore or datastore cluster (required)")
	cmd.Flags().StringSliceVar(&excludeNames, "exclude", nil, "exact object name(s) to leave untouched")
	cmd.Flags().BoolVar(&excludeTemplates, "exclude-templates", false, "leave all templates untouched")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended moves without mutating anything")
	cmd.Flags().BoolVar(&runAsync, "async", false, "submit machine relocations without waiting for completion")
	_ = cmd.MarkFlagRequired("destination")

	return cmd
}
