// Package appstate provides the shared runtime state and structured logger
// used across cugparck's CLI and library packages.
package appstate

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// scope resolves cugparck's per-user config/data directories.
var scope = gap.NewScope(gap.User, "cugparck") //nolint:gochecknoglobals

// Logger is the shared structured logger used by every package that needs
// to report progress or errors to the operator.
var Logger = log.NewWithOptions(os.Stdout, log.Options{ //nolint:gochecknoglobals
	Level:           log.InfoLevel,
	ReportTimestamp: true,
})

// State holds the small amount of process-wide configuration the CLI
// resolves once at startup and the library packages read from.
var State = runtimeState{} //nolint:gochecknoglobals

type runtimeState struct {
	// TablesDir is the default directory generated tables are written to
	// and read from when the CLI isn't given an explicit path.
	TablesDir string
	// Verbose enables debug-level logging.
	Verbose bool
}

// DefaultTablesDir resolves the per-user data directory for generated
// tables; it does not create the directory. Falls back to "./tables" under
// the current directory if the platform data dir can't be resolved.
func DefaultTablesDir() string {
	dirs, err := scope.DataDirs()
	if err != nil || len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return "tables"
		}
		return filepath.Join(cwd, "tables")
	}
	return filepath.Join(dirs[0], "tables")
}

// SetVerbose raises the shared logger to debug level when verbose is true.
func SetVerbose(verbose bool) {
	State.Verbose = verbose
	if verbose {
		Logger.SetLevel(log.DebugLevel)
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}
