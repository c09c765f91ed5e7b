// Package main is the entry point for the HYPRIL hyperspectral viewer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/hypril/hypril/internal/action"
	"github.com/hypril/hypril/internal/config"
	"github.com/hypril/hypril/internal/layer"
	"github.com/hypril/hypril/internal/plugin"
	"github.com/hypril/hypril/internal/ui"
	"github.com/hypril/hypril/internal/ui/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	pluginsDir string
	headless   bool
	listOnly   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.pluginsDir != "" {
		cfg.Plugins.Dir = opts.pluginsDir
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	layers := layer.NewStore()
	actions := action.NewRegistry()

	var bridge ui.Bridge
	var shell *term.UI
	if opts.headless || opts.listOnly {
		bridge = ui.NewLogBridge(logger)
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := screen.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
			return 1
		}
		defer screen.Fini()

		shell = term.New(screen, layers, actions, term.WithLogger(logger))
		bridge = shell
	}

	loader := plugin.NewLoader(layers, actions, bridge,
		plugin.WithDisabled(cfg.Plugins.Disabled))
	manager := plugin.NewManager(loader, plugin.WithLogger(logger))
	defer manager.Close()

	records := manager.DiscoverAndLoad(cfg.Plugins.Dir)

	if opts.listOnly {
		report(os.Stdout, records)
		return 0
	}

	var watcher *plugin.Watcher
	if cfg.Plugins.Watch {
		if watcher, err = plugin.WatchDir(cfg.Plugins.Dir); err != nil {
			logger.Warn("plugin watcher unavailable", "dir", cfg.Plugins.Dir, "error", err)
		} else {
			defer watcher.Close()
			go notifyChanges(watcher, bridge, logger)
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if opts.headless {
		report(os.Stdout, records)
		<-signals
		return 0
	}

	go func() {
		<-signals
		shell.Stop()
	}()

	shell.Run()
	return 0
}

// notifyChanges tells the user the installed plugin set changed after
// startup. Loaded plugins are never hot-reloaded; a restart applies
// the change.
func notifyChanges(w *plugin.Watcher, bridge ui.Bridge, logger *slog.Logger) {
	for ev := range w.Events() {
		logger.Info("plugin directory changed", "source", ev.Source, "op", ev.Op.String())
		bridge.ShowMessage(
			fmt.Sprintf("Plugin %s changed on disk (%s). Restart to apply.", ev.Source, ev.Op),
			"Plugins")
	}
}

// report prints one line per discovered plugin, mirroring the records
// the manager logged.
func report(w *os.File, records []plugin.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no plugins found")
		return
	}
	for _, rec := range records {
		if rec.Failed() {
			fmt.Fprintf(w, "%-30s %s: %v\n", rec.Source, rec.Status, rec.Err)
		} else {
			fmt.Fprintf(w, "%-30s %s\n", rec.Source, rec.Status)
		}
	}
}

// newLogger builds the slog backend from config. The returned closer
// is a no-op when logging to stderr.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	out := os.Stderr
	closer := func() {}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closer, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.pluginsDir, "plugins", "", "Plugin directory (overrides config)")
	flag.StringVar(&opts.pluginsDir, "p", "", "Plugin directory (shorthand)")
	flag.BoolVar(&opts.headless, "headless", false, "Load plugins without a terminal UI")
	flag.BoolVar(&opts.listOnly, "list-plugins", false, "Print plugin load results and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "HYPRIL - hyperspectral image viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hypril [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hypril                      Open the viewer\n")
		fmt.Fprintf(os.Stderr, "  hypril -p ./plugins         Load plugins from a directory\n")
		fmt.Fprintf(os.Stderr, "  hypril -list-plugins        Report plugin load results\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("HYPRIL %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	return opts
}
