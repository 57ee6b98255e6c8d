package saveswap

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/saveswap/internal/version"
	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/filesystem"
	"github.com/arthur-debert/saveswap/pkg/launch"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/paths"
	"github.com/arthur-debert/saveswap/pkg/profiles"
	"github.com/arthur-debert/saveswap/pkg/report"
	"github.com/arthur-debert/saveswap/pkg/swap"
	"github.com/arthur-debert/saveswap/pkg/types"
	"github.com/arthur-debert/saveswap/pkg/ui/prompt"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
	mode       string
	documents  string
	noLaunch   bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "saveswap",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwap(cmd, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.mode, "mode", "", MsgFlagMode)
	rootCmd.PersistentFlags().StringVar(&opts.documents, "documents", "", MsgFlagDocuments)
	rootCmd.Flags().BoolVar(&opts.noLaunch, "no-launch", false, MsgFlagNoLaunch)

	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig merges the config layers with the flags the user set.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		overrides["swap.mode"] = opts.mode
	}
	if flags.Changed("documents") {
		overrides["paths.documents"] = opts.documents
	}
	if flags.Lookup("no-launch") != nil && flags.Changed("no-launch") {
		overrides["launch.enabled"] = !opts.noLaunch
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// newEngine wires the engine for cfg on the real filesystem.
func newEngine(cfg *config.Config, fsys types.FS) (*swap.Engine, error) {
	layout, err := paths.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLayout, err)
	}
	log.Debug().
		Str("slot", layout.SlotPath()).
		Str("archive", layout.ArchiveRoot()).
		Msg("Resolved layout")

	store := profiles.NewStore(fsys, layout, cfg.Profiles.NewProfileLabel)
	return swap.NewEngine(fsys, layout, store, swap.OptionsFromConfig(cfg)), nil
}

func runSwap(cmd *cobra.Command, opts *globalOptions) error {
	logger := logging.GetLogger("cmd.swap")

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, filesystem.NewOS())
	if err != nil {
		return err
	}

	term := prompt.New()
	session := &swap.Session{
		Engine:   engine,
		Prompter: term,
		Notifier: term,
	}
	if cfg.Launch.Enabled {
		session.Launcher = launch.New()
		session.LaunchURI = cfg.Launch.URI
	}

	result, err := session.Run(cmd.Context())
	out := cmd.OutOrStdout()
	if errors.IsErrorCode(err, errors.ErrCancelled) {
		logger.Info().Msg("Session cancelled")
		pterm.Info.WithWriter(out).Println(MsgCancelled)
		return nil
	}
	if err != nil {
		return err
	}

	printResult(out, result)
	if !cfg.Launch.Enabled {
		pterm.Info.WithWriter(out).Println(MsgLaunchDisabled)
	}
	return nil
}

func printResult(out io.Writer, result *swap.Result) {
	success := pterm.Success.WithWriter(out)
	if result.Created {
		success.Printfln(MsgCreated, result.Profile)
	}
	switch {
	case !result.Changed:
		pterm.Info.WithWriter(out).Printfln(MsgAlreadyActive, result.Profile)
	case result.Previous == "":
		success.Printfln(MsgSwitchedFirst, result.Profile)
	default:
		success.Printfln(MsgSwitched, result.Profile, result.Previous)
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, filesystem.NewOS())
			if err != nil {
				return err
			}
			st, err := engine.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && !plain {
				plain = prompt.PlainOutput(f)
			} else if !ok {
				plain = true
			}
			return report.Render(out, st, plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, MsgFlagPlain)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := cfg.MarshalTOML()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
			}

			path := opts.configFile
			if path == "" {
				path = config.DefaultConfigPath()
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, MsgConfigPath, path); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, MsgLogPath, logging.LogFilePath()); err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
