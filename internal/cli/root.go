// Package cli wires the vcadm command tree. One subcommand exists per
// administrative operation; all of them share the connection flags and the
// output flags defined on the root command.
package cli

import (
	"context"
	"errors"
	"os"
	"reflect"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vctools/vcadm/internal/config"
	"github.com/vctools/vcadm/internal/output"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

type app struct {
	cfg      *config.Configuration
	registry *vmware.Registry
}

func newApp() *app {
	return &app{
		cfg:      config.NewDefault(),
		registry: vmware.NewRegistry(),
	}
}

// Execute runs vcadm with the process arguments and tears down every open
// session afterwards.
func Execute(ctx context.Context) error {
	return newApp().execute(ctx, nil)
}

// execute runs the command tree and always logs out open sessions, on
// success and on failure alike. Cobra skips PersistentPostRunE when RunE
// errors, so teardown cannot live there.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if dErr := a.registry.Disconnect(context.WithoutCancel(ctx)); dErr != nil {
		err = errors.Join(err, dErr)
	}
	return err
}

// newRootCommand builds the vcadm command tree.
func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "vcadm",
		Short:        "Administrative helper commands for vSphere",
		Long:         "vcadm queries and mutates vSphere inventory objects: datastore evacuation,\nnetwork/host/VM reports, template moves and role copies.",
		SilenceUsage: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE("vcadm"),
			a.setup,
		),
	}

	a.registerPersistentFlags(root.PersistentFlags())

	root.AddCommand(
		a.newEvacuateCommand(),
		a.newNetworkClusterInfoCommand(),
		a.newVMByNetworkCommand(),
		a.newBrokenUplinksCommand(),
		a.newHBAWWNCommand(),
		a.newFirmwareCommand(),
		a.newNICFirmwareDriverCommand(),
		a.newLogicalVolumesCommand(),
		a.newVMByAddressCommand(),
		a.newVMByRDMCommand(),
		a.newVMDisksCommand(),
		a.newEVCInfoCommand(),
		a.newDuplicateMACCommand(),
		a.newMoveTemplateCommand(),
		a.newCopyRoleCommand(),
	)
	return root
}

// registerPersistentFlags binds the shared connection and output flags into
// the configuration. Defaults not overridden here come from the config's
// default tags.
func (a *app) registerPersistentFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&a.cfg.Servers, "server", nil, "vCenter or ESXi endpoint(s) to connect to")
	fs.StringVar(&a.cfg.Username, "username", "", "login user name")
	fs.StringVar(&a.cfg.Password, "password", "", "login password")
	fs.BoolVar(&a.cfg.Insecure, "insecure", a.cfg.Insecure, "skip TLS certificate verification")
	fs.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format (console, json)")
	fs.StringVar(&a.cfg.Output, "output", a.cfg.Output, "report format (table, json, xlsx)")
	fs.StringVar(&a.cfg.OutputFile, "output-file", "", "target file for xlsx output")
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	_, err := config.NewLogger(a.cfg)
	return err
}

func (a *app) credential() vmware.Credential {
	return vmware.Credential{Username: a.cfg.Username, Password: a.cfg.Password}
}

// connect dials the configured servers and returns the first connection,
// the default target of single-connection commands.
func (a *app) connect(ctx context.Context) (*vmware.Connection, error) {
	if len(a.cfg.Servers) == 0 {
		return nil, vcerrors.NewPreconditionError("no server configured; use --server or VCADM_SERVER")
	}
	conns, err := a.registry.Connect(ctx, a.cfg.Servers, a.credential(), a.cfg.Insecure)
	if err != nil {
		return nil, err
	}
	return conns[0], nil
}

// render writes the rows in the configured format. An empty result set is a
// warning, not an error.
func (a *app) render(rows any, query string) error {
	if reflect.ValueOf(rows).Len() == 0 {
		warning := vcerrors.NewNotFoundWarning(query)
		output.Warn("%v", warning)
		return nil
	}
	format, err := output.ParseFormat(a.cfg.Output)
	if err != nil {
		return err
	}
	return output.Render(os.Stdout, format, a.cfg.OutputFile, rows)
}

// buildFilter maps the shared --pattern/--name/--id flags onto a NameFilter.
// The flags are mutually exclusive.
func buildFilter(patterns, names, ids []string) (*vmware.NameFilter, error) {
	switch {
	case len(ids) > 0:
		return vmware.NewIDFilter(ids), nil
	case len(names) > 0:
		return vmware.NewLiteralFilter(names), nil
	default:
		return vmware.NewPatternFilter(patterns)
	}
}

// addSelectionFlags registers the shared selection flags.
func addSelectionFlags(cmd *cobra.Command, patterns, names, ids *[]string) {
	cmd.Flags().StringSliceVar(patterns, "pattern", nil, "regular expression(s) selecting objects by name, OR-combined")
	cmd.Flags().StringSliceVar(names, "name", nil, "exact object name(s)")
	cmd.Flags().StringSliceVar(ids, "id", nil, "managed object id(s), e.g. vm-42 or host-12")
	cmd.MarkFlagsMutuallyExclusive("pattern", "name", "id")
}
