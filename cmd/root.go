// Package cmd is the cugparck CLI surface: generate, attack, and benchmark
// subcommands over the core packages in internal/.
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truelossless/cugparck/internal/appstate"
	"github.com/truelossless/cugparck/internal/rterrors"
)

var (
	cfgFile   string
	debugFlag bool
)

// rootCmd is the base command when cugparck is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "cugparck",
	Short:         "Rainbow table generation and attack",
	Long:          "cugparck generates compressed rainbow tables and inverts password digests against them.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command and translates any exitCodeError into the
// matching process exit code.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		if ec.err != nil && !errors.Is(ec.err, rterrors.ErrNotFound) {
			appstate.Logger.Error(ec.err.Error())
		}
		os.Exit(ec.code)
	}

	appstate.Logger.Error(err.Error())
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: cugparck.yaml in the user config directory or the current directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("tables_dir", appstate.DefaultTablesDir())
}

// initConfig resolves the config file search path via the per-user config
// directory, reads it if present, and applies debug/tables_dir settings to
// the shared runtime state.
func initConfig() {
	if home, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(home)
	}
	if cwd, err := os.Getwd(); err == nil {
		viper.AddConfigPath(cwd)
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName("cugparck")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		appstate.Logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}

	appstate.SetVerbose(viper.GetBool("debug"))
	appstate.State.TablesDir = viper.GetString("tables_dir")
}

// exitCodeError pairs an error with the process exit code it should map to,
// per the exit code contract each subcommand documents.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitCodeError{code: code, err: err}
}
