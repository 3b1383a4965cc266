package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cernml/geoff/internal/ctxlog"
	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/plugin"
	"github.com/cernml/geoff/internal/registry"
	"github.com/cernml/geoff/internal/report"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	logFile   *os.File
	config    *Config
	selection machine.Selection
	registry  *registry.Registry
	failures  *report.Queue
}

// New constructs the application. It configures logging and reconciles
// the machine selection; an inconsistent selection is a fatal startup
// error.
func New(outW io.Writer, cfg *Config) (*App, error) {
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	var fileW io.Writer
	if logFile != nil {
		// An *os.File in an io.Writer is never nil even when the file is.
		fileW = logFile
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW, fileW)
	if logFile != nil {
		logger.Debug("Debug log file opened.", "path", logFile.Name())
	}

	selection, err := machine.NewSelection(cfg.Machine, cfg.User, cfg.LSAServer)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	logger.Info("Machine selection reconciled.",
		"machine", selection.Machine,
		"user", selection.User,
		"lsa_server", selection.LSAServer,
	)

	return &App{
		outW:      outW,
		logger:    logger,
		logFile:   logFile,
		config:    cfg,
		selection: selection,
		registry:  registry.New(),
		failures:  report.NewQueue(),
	}, nil
}

// Selection returns the reconciled machine selection.
func (a *App) Selection() machine.Selection {
	return a.selection
}

// Registry returns the application's problem registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Failures returns the queue of non-fatal startup failures.
func (a *App) Failures() *report.Queue {
	return a.failures
}

// Close releases the debug log file, if any.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

// Run executes the import phase: built-in problem providers first, then
// the foreign imports from the command line. With KeepGoing set, plugin
// failures are queued and summarized without failing the run; otherwise
// the first failure aborts the phase and Run returns the summarizing
// error.
func (a *App) Run(ctx context.Context) error {
	return a.run(ctx, builtinModules)
}

func (a *App) run(ctx context.Context, modules []registry.Module) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	orch := plugin.NewOrchestrator(a.registry, a.config.KeepGoing)
	if a.config.Builtins {
		for _, mod := range modules {
			orch.AddBuiltin(mod)
		}
	} else {
		a.logger.Debug("Built-in problem providers disabled.")
	}
	for _, spec := range a.config.ForeignImports {
		orch.AddForeign(spec)
	}
	defer func() {
		if err := orch.Resolver().Close(); err != nil {
			a.logger.Warn("Failed to close plugin archives.", "error", err)
		}
	}()

	outcomes := orch.Run(ctx)
	aborted := false
	for _, outcome := range outcomes {
		switch outcome.State {
		case plugin.Failed:
			var msg string
			if a.config.KeepGoing {
				msg = fmt.Sprintf("could not load %s plugin '%s'", outcome.Kind, outcome.Description)
			} else {
				aborted = true
				msg = fmt.Sprintf("aborted import sequence due to %s plugin '%s'", outcome.Kind, outcome.Description)
			}
			a.failures.Append(ctx, outcome.Err, msg)
		case plugin.Pending:
			a.logger.Warn("Plugin import skipped after earlier failure.",
				"kind", outcome.Kind, "request", outcome.Description)
		}
	}

	if n := a.failures.Len(); n > 0 {
		a.logger.Warn("Some plugins failed to load.",
			"failures", n, "summary", a.failures.Summarize())
	}
	a.logger.Info("Problem registry populated.",
		"count", a.registry.Len(), "problems", a.registry.Names())
	a.logger.Debug("App.Run method finished.")
	if aborted {
		return fmt.Errorf("import phase aborted: %s", a.failures.Summarize())
	}
	return nil
}
