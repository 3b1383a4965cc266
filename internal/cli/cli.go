// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cernml/geoff/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("geoff", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Geoff - Generic optimization frontend and framework.

Usage:
  geoff [options] [IMPORT ...]

Arguments:
  IMPORT
    Path to a plugin manifest, bundle directory or zip archive, optionally
    followed by a ::-delimited chain of submodules, e.g.
    ./myplugins::sps::blowup. Each import registers the optimization
    problems it declares.

Options:
  Short options take their value separately or with '=', e.g. '-s next'
  or '-s=next'.

`)
		flagSet.PrintDefaults()
	}

	var machineFlag, userFlag, serverFlag string
	flagSet.StringVar(&machineFlag, "machine", "", "Machine to preselect, e.g. SPS or LINAC_4.")
	flagSet.StringVar(&machineFlag, "m", "", "Machine to preselect (shorthand).")
	flagSet.StringVar(&userFlag, "user", "", "Timing user to preselect, e.g. SPS.USER.SFTPRO1.")
	flagSet.StringVar(&userFlag, "u", "", "Timing user to preselect (shorthand).")
	flagSet.StringVar(&serverFlag, "lsa-server", "", "LSA server to use, e.g. sps, next or gpn.")
	flagSet.StringVar(&serverFlag, "s", "", "LSA server to use (shorthand).")

	var keepGoing bool
	flagSet.BoolVar(&keepGoing, "keep-going", false, "Continue importing plugins after one of them fails.")
	flagSet.BoolVar(&keepGoing, "k", false, "Continue importing plugins after one fails (shorthand).")

	builtinsFlag := flagSet.Bool("builtins", true, "Load the compiled-in optimization problems.")
	noBuiltinsFlag := flagSet.Bool("no-builtins", false, "Do not load the compiled-in optimization problems.")

	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")
	logFileFlag := flagSet.String("log-file", "", "File receiving a JSON debug log. Empty picks a fresh file in the temp directory, '-' disables it.")
	enableLoggingFlag := flagSet.Bool("enable-logging", true, "Write the JSON debug log file.")
	disableLoggingFlag := flagSet.Bool("disable-logging", false, "Do not write a JSON debug log file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *versionFlag {
		fmt.Fprintf(output, "geoff %s\n", app.Version)
		return nil, true, nil
	}

	logFile := *logFileFlag
	if *disableLoggingFlag || !*enableLoggingFlag {
		logFile = app.LogFileDisabled
	}

	config, err := app.NewConfig(app.Config{
		ForeignImports: flagSet.Args(),
		Machine:        machineFlag,
		User:           userFlag,
		LSAServer:      serverFlag,
		KeepGoing:      keepGoing,
		Builtins:       *builtinsFlag && !*noBuiltinsFlag,
		LogFile:        logFile,
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
