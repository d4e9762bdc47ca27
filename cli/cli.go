package cli

//lint:file-ignore faillint This file should be ignored by faillint (fmt in use).

import (
	"fmt"
	"io"
	"os"

	kingpin "github.com/alecthomas/kingpin/v2"

	"github.com/TykTechnologies/kvrouter/cli/linter"
	"github.com/TykTechnologies/kvrouter/config"
)

const (
	appName = "kvrouter"
	appDesc = "HTTP router in front of a Redis key-value store."
)

var (
	// Conf specifies a configuration file to use
	Conf *string
	// Port overrides the listen port of the configuration
	Port *int
	// DebugMode sets the log level to debug
	DebugMode *bool

	// DefaultMode is set when the default command is used.
	DefaultMode bool

	app *kingpin.Application

	// out receives the linter report.
	out io.Writer = os.Stdout
)

// Init sets all flags and subcommands.
func Init(version string, confPaths []string) {
	DefaultMode = false

	app = kingpin.New(appName, appDesc)
	app.HelpFlag.Short('h')
	app.Version(version)

	// Start/default command:
	startCmd := app.Command("start", "Starts the router, this is the default command.")
	startCmd.Default()
	startCmd.Action(func(*kingpin.ParseContext) error {
		DefaultMode = true
		return nil
	})

	Conf = startCmd.Flag("conf", "load a named configuration file").PlaceHolder("FILE").String()
	Port = startCmd.Flag("port", "listen on PORT (overrides config file)").Int()
	DebugMode = startCmd.Flag("debug", "enable debug mode").Bool()

	// Linter:
	lintCmd := app.Command("lint", "Runs a linter on the router configuration file")
	lintConf := lintCmd.Flag("conf", "configuration file to lint").PlaceHolder("FILE").String()
	lintCmd.Action(func(*kingpin.ParseContext) error {
		paths := confPaths
		if *lintConf != "" {
			paths = []string{*lintConf}
		}
		return lint(paths)
	})
}

func lint(paths []string) error {
	path, lines, err := linter.Run(config.Schema, paths)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintf(out, "found no issues in %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "issues found in %s:\n", path)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return fmt.Errorf("%d issues found", len(lines))
}

// Parse parses the command-line arguments. Init must be called first.
func Parse(args []string) error {
	_, err := app.Parse(args)
	return err
}
