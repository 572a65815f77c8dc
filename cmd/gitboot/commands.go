// Package gitboot implements the gitboot command line.
package gitboot

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/arthur-debert/gitboot/internal/version"
	"github.com/arthur-debert/gitboot/pkg/agent"
	"github.com/arthur-debert/gitboot/pkg/bootstrap"
	"github.com/arthur-debert/gitboot/pkg/config"
	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/filesystem"
	"github.com/arthur-debert/gitboot/pkg/identity"
	"github.com/arthur-debert/gitboot/pkg/installer"
	"github.com/arthur-debert/gitboot/pkg/keys"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/paths"
	"github.com/arthur-debert/gitboot/pkg/platform"
	"github.com/arthur-debert/gitboot/pkg/prompt"
	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/arthur-debert/gitboot/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Dependencies are the system collaborators the command uses. Nil fields
// are filled with the real implementations.
type Dependencies struct {
	Runner      runner.Runner
	Lookup      runner.Lookup
	FS          types.FS
	GOOS        string
	Home        string
	Prompter    prompt.Prompter
	Privilege   installer.PrivilegeChecker
	RefreshPath func() error
	// Getenv is used by the ssh-agent step.
	Getenv func(string) string
}

type rootOptions struct {
	name        string
	email       string
	ssh         bool
	verbosity   int
	configFile  string
	printConfig bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(Dependencies{})
}

func newRootCmd(deps Dependencies) *cobra.Command {
	initTemplateFormatting()

	var (
		opts rootOptions
		cfg  *config.Config
		loc  *paths.Paths
	)

	rootCmd := &cobra.Command{
		Use:     "gitboot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.Newf(errors.ErrUnrecognizedArgument, MsgErrUnexpectedArg, args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if loc, err = paths.New(deps.Home); err != nil {
				logging.SetupLogger(opts.verbosity, "")
				return err
			}
			cfg, err = config.Load(config.LoadOptions{File: opts.configFile, DefaultFile: loc.ConfigFile()})
			if err != nil {
				// Console logging still helps diagnose a broken config file
				logging.SetupLogger(opts.verbosity, "")
				return err
			}

			// Nothing is written to disk until there is something to do
			logFile := ""
			if cfg.Logging.File && hasAction(cmd.Flags()) {
				logFile = loc.LogFile()
			}
			logging.SetupLogger(opts.verbosity, logFile)
			if opts.configFile != "" {
				log.Debug().Msgf(MsgConfigFileUsed, opts.configFile)
			}
			log.Debug().Str("command", cmd.Name()).Str("version", version.Version).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.printConfig {
				out, err := config.Render(cfg)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(out); err != nil {
					return errors.Wrap(err, errors.ErrInternal, MsgErrWriteOutput)
				}
				return nil
			}
			if !hasAction(cmd.Flags()) {
				return errors.New(errors.ErrInvalidInput, MsgErrNoAction)
			}
			return run(cmd.Context(), cmd, deps.withDefaults(cfg), cfg, loc, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.name, "name", "", MsgFlagName)
	flags.StringVar(&opts.email, "email", "", MsgFlagEmail)
	flags.BoolVar(&opts.ssh, "ssh", false, MsgFlagSSH)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.BoolVar(&opts.printConfig, "print-config", false, MsgFlagPrintConfig)
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.SortFlags = false

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrUnrecognizedArgument, MsgErrInvalidOption)
	})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf("gitboot %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date))

	return rootCmd
}

// hasAction reports whether any flag that makes gitboot do something was given.
func hasAction(flags *pflag.FlagSet) bool {
	for _, name := range []string{"name", "email", "ssh", "print-config"} {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

func (d Dependencies) withDefaults(cfg *config.Config) Dependencies {
	if d.Runner == nil {
		d.Runner = runner.NewExecRunner(cfg.Exec.Timeout)
	}
	if d.Lookup == nil {
		d.Lookup = runner.PathLookup{}
	}
	if d.FS == nil {
		d.FS = filesystem.NewOS()
	}
	if d.GOOS == "" {
		d.GOOS = runtime.GOOS
	}
	if d.Prompter == nil {
		d.Prompter = prompt.ForTerminal()
	}
	if d.Privilege == nil {
		d.Privilege = installer.SystemPrivilege()
	}
	if d.RefreshPath == nil {
		d.RefreshPath = installer.RefreshPath
	}
	return d
}

// run wires the pipeline and reports the outcome.
func run(ctx context.Context, cmd *cobra.Command, deps Dependencies, cfg *config.Config, loc *paths.Paths, opts rootOptions) error {
	family := types.FamilyFromGOOS(deps.GOOS)

	detector := platform.NewDetector(deps.Lookup)
	detector.GOOS = deps.GOOS

	inst := installer.New(deps.Runner, deps.Lookup, cfg.InstallerOptions(),
		installer.WithPrivilegeChecker(deps.Privilege),
		installer.WithPathRefresher(deps.RefreshPath),
	)
	conf := identity.NewConfigurator(identity.NewGitConfigStore(deps.Runner), family, cfg.IdentityDefaults())

	var provisioner bootstrap.KeyProvisioner
	if opts.ssh {
		registrar := agent.NewRegistrar(family, deps.Runner, deps.Lookup,
			agent.SystemController(family, deps.Runner, deps.Lookup), cfg.SSH.AgentService)
		if deps.Getenv != nil {
			registrar.WithGetenv(deps.Getenv)
		}
		provisioner = keys.NewProvisioner(deps.FS, deps.Runner, deps.Lookup, registrar, loc.KeypairRequest()).
			WithCommentFallback(cfg.SSH.CommentFallback)
	}

	reporter := ui.NewReporter(cmd.OutOrStdout(), ui.FormatAuto)
	b := bootstrap.New(detector, inst, conf, provisioner, deps.Prompter, reporter)

	res, err := b.Run(ctx, bootstrap.Options{
		Identity:      types.Identity{Name: opts.name, Email: opts.email},
		ProvisionKey:  opts.ssh,
		PromptMissing: true,
		SkipIfPresent: cfg.Install.SkipIfPresent,
	})
	if err != nil {
		return err
	}

	reporter.Summary(res)
	return nil
}

// IsUsageError reports whether err came from how gitboot was invoked.
func IsUsageError(err error) bool {
	code := errors.GetErrorCode(err)
	return code == errors.ErrUnrecognizedArgument || code == errors.ErrInvalidInput
}

// ReportError writes err to w. Usage errors are followed by the usage text.
func ReportError(cmd *cobra.Command, err error, w io.Writer) {
	ui.NewReporter(w, ui.FormatAuto).Error(err)
	if cmd != nil && IsUsageError(err) {
		cmd.SetOut(w)
		_ = cmd.Usage()
	}
}
