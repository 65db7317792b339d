package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/pokertile/internal/config"
	"github.com/1broseidon/pokertile/internal/daemon"
	"github.com/1broseidon/pokertile/internal/detect"
	"github.com/1broseidon/pokertile/internal/ipc"
	"github.com/1broseidon/pokertile/internal/platform"
	"github.com/1broseidon/pokertile/internal/wintype"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: pokertile daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: pokertile daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "capture":
		os.Exit(runCapture(os.Args[2:]))
	case "configs":
		os.Exit(runConfigs(os.Args[2:]))
	case "types":
		os.Exit(runTypes(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pokertile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the pokertile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  windows             List detected poker table windows")
	fmt.Fprintln(w, "  displays            List displays")
	fmt.Fprintln(w, "  arrange             Apply a stored configuration")
	fmt.Fprintln(w, "  capture             Save the current table positions as a configuration")
	fmt.Fprintln(w, "  reload              Reload config and window types in the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  configs list        List stored configurations")
	fmt.Fprintln(w, "  configs activate    Mark a configuration active")
	fmt.Fprintln(w, "  configs generate    Generate a grid configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  types list          List window type definitions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'pokertile <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:       %v\n", status.DaemonRunning)
	fmt.Printf("active_configuration: %s\n", status.ActiveConfiguration)
	fmt.Printf("window_count:         %d\n", status.WindowCount)
	fmt.Printf("uptime_seconds:       %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile windows")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the poker table windows the daemon currently manages.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(data.Windows) == 0 {
		fmt.Println("No poker table windows detected.")
		return 0
	}
	for _, w := range data.Windows {
		fmt.Printf("%-10d %-18s display=%d  %gx%g+%g+%g  %s\n",
			w.ID, w.TypeID, w.DisplayID, w.Width, w.Height, w.X, w.Y, w.Title)
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile displays")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, d := range data.Displays {
		fmt.Printf("%d: %-12s %gx%g+%g+%g\n", d.ID, d.Name, d.Width, d.Height, d.X, d.Y)
	}
	return 0
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile arrange <configuration-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Apply a stored configuration, moving every detected table into its slot.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "arrange requires a configuration id")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	result, err := client.ApplyConfiguration(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Moved %d window(s)\n", result.Moved)
	for _, title := range result.Failed {
		fmt.Printf("Failed: %s\n", title)
	}
	if len(result.Failed) > 0 {
		return 1
	}
	return 0
}

func runCapture(args []string) int {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	optimize := fs.Bool("optimize", false, "snap captured positions to a clean grid")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile capture [-optimize] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Save the current table positions as a new configuration.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "capture requires a configuration name")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	result, err := client.CaptureLayout(fs.Arg(0), *optimize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Captured configuration %q with %d slot(s)\n", result.ConfigurationID, result.SlotCount)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile reload")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("Reloaded.")
	return 0
}

func runTypes(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: pokertile types list")
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] != "list" {
		fmt.Fprintf(os.Stderr, "Unknown types command: %s\n", args[0])
		return 2
	}

	store := &wintype.Store{}
	types, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, t := range types {
		state := "enabled"
		if !t.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-24s %-9s title=%q class=%q\n", t.ID, state, t.TitlePattern, t.ClassPattern)
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: pokertile config <validate|print>")
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "validate":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("Configuration is valid.")
		return 0
	case "print":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// Config may pin the X server to connect to.
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.Xauthority != "" {
		os.Setenv("XAUTHORITY", cfg.Xauthority)
	}

	backend, err := platform.NewX11Backend()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	typeStore := &wintype.Store{}
	confStore := &config.ConfigurationStore{}

	service, err := daemon.NewService(cfg, backend, typeStore, confStore, logger)
	if err != nil {
		log.Fatalf("Failed to initialize daemon: %v", err)
	}

	autoSelector := daemon.NewAutoSelector(confStore, service.Applier(), nil, logger)

	watcher := daemon.NewWatcher(daemon.WatcherConfig{
		Interval: cfg.PollInterval(),
		Logger:   logger,
	}, service.Detector(), service.Types, func(windows []detect.ManagedWindow) {
		service.UpdateSnapshot(windows)
		autoSelector.Evaluate(windows)
	})
	service.SetWatcher(watcher)

	ipcServer, err := ipc.NewServer(service, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.HoverActivation.Enabled {
		hover := daemon.NewHoverActivator(daemon.HoverConfig{
			Delay:  cfg.HoverDelay(),
			Logger: logger,
		}, backend, service.Detector())
		go hover.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading")
				if err := service.Reload(); err != nil {
					logger.Error("reload failed", "error", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down pokertile daemon")
				cancel()
				return
			}
		}
	}()

	logger.Info("pokertile daemon started", "poll_interval", cfg.PollInterval())
	watcher.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}
