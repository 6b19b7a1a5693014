package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/logging"
	"github.com/Danondso/sigcap/internal/permission"
)

func main() {
	startMain(run)
}

func run() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sigcap",
		Short:         "Record simulated acoustic signal samples to CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), s)
		},
	}

	rootCmd.PersistentFlags().String("config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("out", "", "CSV output file (overrides [output] in config)")
	rootCmd.PersistentFlags().Bool("no-mic-check", false, "skip the microphone permission check")

	rootCmd.AddCommand(
		recordCmd(),
		inspectCmd(),
		configCmd(),
	)
	return rootCmd
}

// settings is the resolved configuration for one invocation.
type settings struct {
	cfg     *config.Config
	cfgPath string
	debug   bool
	dest    string
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	out, _ := cmd.Flags().GetString("out")
	noMic, _ := cmd.Flags().GetBool("no-mic-check")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debug {
		cfg.Log.Level = logging.DebugLevel
	}
	if noMic {
		cfg.Permission.RequireMic = false
	}

	dest := cfg.Destination()
	if out != "" {
		dest = out
	}
	return &settings{cfg: cfg, cfgPath: cfgPath, debug: debug, dest: dest}, nil
}

// newGate returns the permission gate for cfg. The microphone gate needs
// PortAudio; when it cannot start, capture is refused.
func newGate(cfg *config.Config, logger *zap.SugaredLogger) (permission.Gate, func()) {
	if !cfg.Permission.RequireMic {
		return permission.Static(true), func() {}
	}
	if err := initPortAudio(); err != nil {
		logger.Warnw("portaudio init failed, capture disabled", "err", err)
		return permission.Static(false), func() {}
	}
	logger.Debugw("portaudio initialized", "mic", permission.MicGate{}.Name())
	return permission.MicGate{}, terminatePortAudio
}
