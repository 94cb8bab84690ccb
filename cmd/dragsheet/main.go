package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asheshgoplani/dragsheet/internal/config"
	"github.com/asheshgoplani/dragsheet/internal/logging"
	"github.com/asheshgoplani/dragsheet/internal/sheet"
	"github.com/asheshgoplani/dragsheet/internal/ui"
)

const Version = "0.3.0"

// init sets up color profile for consistent terminal colors across environments
func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss color profile based on terminal capabilities.
// Prefers TrueColor for best visuals, falls back to ANSI256 for compatibility.
func initColorProfile() {
	// DRAGSHEET_COLOR: truecolor, 256, 16, none
	if colorEnv := os.Getenv("DRAGSHEET_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	termName := os.Getenv("TERM")
	for _, t := range []string{"xterm-256color", "screen-256color", "tmux-256color", "xterm-direct", "alacritty", "kitty", "wezterm"} {
		if strings.Contains(termName, t) {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}

	// Fallback: Use ANSI256 for maximum compatibility
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("dragsheet v%s\n", Version)
			return
		case "help", "--help", "-h":
			printHelp()
			return
		case "init":
			handleInit()
			return
		}
	}

	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'dragsheet help' for usage.")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runOptions are the command-line overrides. Nil pointers mean "use config".
type runOptions struct {
	direction *string
	visible   *bool
	content   *string
	threshold *float64
	title     *string
	file      string
}

func parseFlags(args []string) (runOptions, error) {
	fs := flag.NewFlagSet("dragsheet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	direction := fs.String("direction", "", "bottom-to-top or top-to-bottom")
	visible := fs.Bool("visible", false, "show the sheet on startup")
	content := fs.String("content", "", "scroll or list")
	threshold := fs.Float64("threshold", 0, "release distance in rows")
	title := fs.String("title", "", "sheet title")

	if err := fs.Parse(reorderArgsForFlagParsing(args)); err != nil {
		return runOptions{}, err
	}
	if fs.NArg() > 1 {
		return runOptions{}, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	var opts runOptions
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "direction":
			opts.direction = direction
		case "visible":
			opts.visible = visible
		case "content":
			opts.content = content
		case "threshold":
			opts.threshold = threshold
		case "title":
			opts.title = title
		}
	})
	opts.file = fs.Arg(0)
	return opts, nil
}

// reorderArgsForFlagParsing moves the file argument to the end of args
// so Go's flag package can parse flags given after it.
func reorderArgsForFlagParsing(args []string) []string {
	valueFlags := map[string]bool{
		"-direction": true, "--direction": true,
		"-content": true, "--content": true,
		"-threshold": true, "--threshold": true,
		"-title": true, "--title": true,
	}

	var flags []string
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && valueFlags[arg] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}

// applyFlags overrides config values with the flags that were given.
func applyFlags(cfg config.UserConfig, opts runOptions) config.UserConfig {
	if opts.direction != nil {
		cfg.Sheet.Direction = *opts.direction
	}
	if opts.visible != nil {
		cfg.Sheet.Visible = *opts.visible
	}
	if opts.content != nil {
		cfg.Sheet.Content.Mode = *opts.content
	}
	if opts.threshold != nil {
		cfg.Sheet.Threshold = *opts.threshold
	}
	if opts.title != nil {
		cfg.Sheet.Title = *opts.title
	}
	return cfg
}

const defaultContent = `Grab the bar at the sheet's edge and drag it away from the screen.
Let go past the threshold and the sheet slides out.
Let go before it and the sheet snaps back.
Dragging toward the screen centre is allowed but the sheet stays put.
Press space to bring the sheet back, d to flip the direction.
Edit config.toml while this runs and changes apply immediately.`

// loadContent reads the sheet text from path, or returns the built-in text.
func loadContent(path string) (string, error) {
	if path == "" {
		return defaultContent, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func run(opts runOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	text, err := loadContent(opts.file)
	if err != nil {
		return err
	}

	loaded, loadErr := config.LoadUserConfig()
	cfg := applyFlags(*loaded, opts)

	// When DRAGSHEET_DEBUG is set, logs go to ~/.dragsheet/debug.log
	// When not set, logs are discarded to avoid TUI interference
	debugMode := os.Getenv("DRAGSHEET_DEBUG") != ""
	if baseDir, err := config.GetConfigDir(); err == nil {
		logging.Init(cfg.LoggingConfig(baseDir, debugMode))
		defer logging.Shutdown()
	}
	log := logging.ForComponent(logging.CompUI)
	log.Info("dragsheet_started", slog.String("version", Version), slog.Int("pid", os.Getpid()))

	_, contentOpts, _ := cfg.SheetConfig()
	content := sheet.NewContent(contentOpts, text)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	homeOpts := []ui.Option{
		ui.WithConfigError(loadErr),
		ui.WithOverrides(func(c config.UserConfig) config.UserConfig { return applyFlags(c, opts) }),
	}

	watcher, err := config.NewWatcher()
	if err != nil {
		log.Warn("config_watcher_unavailable", slog.String("error", err.Error()))
	} else {
		homeOpts = append(homeOpts, ui.WithConfigUpdates(watcher.Updates()))
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if tw := ui.NewThemeWatcher(gctx); tw != nil {
		defer tw.Close()
		homeOpts = append(homeOpts, ui.WithThemeWatcher(tw))
	}

	ui.Version = Version
	home := ui.NewHome(&cfg, content, homeOpts...)
	defer home.Close()

	p := tea.NewProgram(
		home,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	return g.Wait()
}

func handleInit() {
	path, err := config.CreateExampleConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config: %s\n", path)
}

func printHelp() {
	fmt.Printf("dragsheet v%s\n", Version)
	fmt.Println("A drag-to-dismiss sheet for the terminal")
	fmt.Println()
	fmt.Println("Usage: dragsheet [flags] [file]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)           Start the TUI")
	fmt.Println("  init             Write an example config.toml")
	fmt.Println("  version          Show version")
	fmt.Println("  help             Show this help")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --direction <d>  bottom-to-top (default) or top-to-bottom")
	fmt.Println("  --visible        Show the sheet on startup")
	fmt.Println("  --content <m>    scroll (default) or list")
	fmt.Println("  --threshold <n>  Release distance in rows (default: height/8)")
	fmt.Println("  --title <s>      Sheet title")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DRAGSHEET_HOME   Config directory (default: ~/.dragsheet)")
	fmt.Println("  DRAGSHEET_COLOR  Color mode: truecolor, 256, 16, none")
	fmt.Println("  DRAGSHEET_DEBUG  Write debug.log to the config directory")
	fmt.Println()
	fmt.Println("Keyboard shortcuts (in TUI):")
	fmt.Println("  space      Toggle the sheet")
	fmt.Println("  o / c      Open / close")
	fmt.Println("  d          Flip direction")
	fmt.Println("  ?          Help")
	fmt.Println("  q          Quit")
}
