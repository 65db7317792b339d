package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/pokertile/internal/config"
	"github.com/1broseidon/pokertile/internal/ipc"
	"github.com/1broseidon/pokertile/internal/layout"
	"github.com/1broseidon/pokertile/internal/platform"
)

func printConfigsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pokertile configs <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list       List stored configurations")
	fmt.Fprintln(w, "  activate   Mark a configuration active")
	fmt.Fprintln(w, "  generate   Generate a grid configuration for a display")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'pokertile configs <command> --help' for command-specific options.")
}

func runConfigs(args []string) int {
	if len(args) == 0 {
		printConfigsUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runConfigsList(args[1:])
	case "activate":
		return runConfigsActivate(args[1:])
	case "generate":
		return runConfigsGenerate(args[1:])
	case "help", "-h", "--help":
		printConfigsUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown configs command: %s\n\n", args[0])
		printConfigsUsage(os.Stderr)
		return 2
	}
}

func runConfigsList(args []string) int {
	fs := flag.NewFlagSet("configs list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile configs list")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListConfigurations()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(data.Configurations) == 0 {
		fmt.Println("No stored configurations.")
		return 0
	}
	for _, c := range data.Configurations {
		marker := " "
		if c.Active {
			marker = "*"
		}
		auto := ""
		if c.AutoActivation {
			auto = "  [auto]"
		}
		fmt.Printf("%s %-24s %-24s %d slot(s)%s\n", marker, c.ID, c.Name, c.SlotCount, auto)
	}
	return 0
}

func runConfigsActivate(args []string) int {
	fs := flag.NewFlagSet("configs activate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile configs activate <configuration-id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "activate requires a configuration id")
		fs.Usage()
		return 2
	}

	store := &config.ConfigurationStore{}
	if err := store.SetActive(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Activated %q\n", fs.Arg(0))
	return 0
}

func runConfigsGenerate(args []string) int {
	fs := flag.NewFlagSet("configs generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "name for the generated configuration (required)")
	displayID := fs.Int("display", 0, "display to generate the grid on")
	tables := fs.Int("tables", 0, "table count for an aspect-ratio grid")
	rows := fs.Int("rows", 0, "row count for a plain grid")
	cols := fs.Int("cols", 0, "column count for a plain grid")
	overlap := fs.Float64("overlap", 0, "overlap fraction for a plain grid (0 to 0.5)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pokertile configs generate -name <name> (-tables N | -rows R -cols C [-overlap F]) [-display ID]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Generate a grid configuration sized to the display. With -tables the grid")
		fmt.Fprintln(os.Stderr, "is chosen for the poker table aspect ratio; with -rows/-cols cells divide")
		fmt.Fprintln(os.Stderr, "the display evenly, optionally overlapping.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		fs.Usage()
		return 2
	}
	if *tables <= 0 && (*rows <= 0 || *cols <= 0) {
		fmt.Fprintln(os.Stderr, "either -tables or both -rows and -cols are required")
		fs.Usage()
		return 2
	}

	display, code := lookupDisplay(*displayID)
	if code != 0 {
		return code
	}

	var (
		l   *layout.Layout
		err error
	)
	switch {
	case *tables > 0:
		l, err = layout.NewPokerLayout(*tables, display)
	case *overlap > 0:
		l, err = layout.NewOverlappingGridLayout(*rows, *cols, *overlap, display)
	default:
		l, err = layout.NewGridLayout(*rows, *cols, display)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	l.Name = *name

	store := &config.ConfigurationStore{}
	configuration := config.Configuration{
		ID:     *name,
		Name:   *name,
		Layout: *l,
	}
	if err := store.Upsert(configuration); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Generated configuration %q with %d slot(s)\n", configuration.ID, len(l.Slots))
	return 0
}

// lookupDisplay resolves display bounds via the daemon.
func lookupDisplay(id int) (platform.Display, int) {
	client := ipc.NewClient()
	data, err := client.GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return platform.Display{}, 1
	}
	for _, d := range data.Displays {
		if d.ID == id {
			return platform.Display{
				ID:   d.ID,
				Name: d.Name,
				Bounds: platform.Rect{
					X:      d.X,
					Y:      d.Y,
					Width:  d.Width,
					Height: d.Height,
				},
			}, 0
		}
	}
	fmt.Fprintf(os.Stderr, "display %d not found\n", id)
	return platform.Display{}, 1
}
