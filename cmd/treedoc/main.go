package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/treedoc/cli"
	"github.com/sokinpui/treedoc/internal/config"
	"github.com/sokinpui/treedoc/internal/tui"
	"github.com/sokinpui/treedoc/internal/ui"
	"github.com/sokinpui/treedoc/treedoc"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fileCfg, err := config.Load(".", cfg.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyFile(fileCfg)

	if !cfg.Restore && !cfg.Revert && cfg.Root == "" {
		if err := promptForPaths(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	app, err := treedoc.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if cfg.NoTUI || cfg.Verbose || !isatty.IsTerminal(os.Stdout.Fd()) {
		os.Exit(runPlain(app, cfg))
	}

	model := tui.New(app)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if model.Err() != nil {
		printStack(model.Err())
		os.Exit(1)
	}
}

// runPlain executes the app without the TUI and returns the exit code.
func runPlain(app *treedoc.App, cfg *cli.Config) int {
	progress := ui.NewProgressLine("Processing")
	app.SetProgressCallback(progress.Update)

	summary, err := app.Execute()
	progress.Finish()
	if err != nil {
		ui.Error("Error: %v", err)
		printStack(err)
		return 1
	}

	title := "Consolidation Summary"
	switch {
	case cfg.Revert:
		title = "Revert Summary"
	case cfg.Restore:
		title = "Restore Summary"
	}
	ui.PrintSummary(title, summary)
	return 0
}

func printStack(err error) {
	var detailed *treedoc.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
}

// promptForPaths asks for the root directory, the output path and the log
// path when no root was given on the command line.
func promptForPaths(cfg *cli.Config) error {
	printInstructions()
	asker := ui.NewAsker(os.Stdin, os.Stderr)

	root, err := asker.AskUntil("Enter the root directory path: ", func(s string) error {
		if info, err := os.Stat(s); err != nil || !info.IsDir() {
			return errors.New("the specified path is not a valid directory")
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.Root = root

	if cfg.Output == "" {
		output, err := asker.AskUntil("Enter the output file name (including path if desired): ", func(s string) error {
			dir := filepath.Dir(s)
			if s == "" || dir == "." {
				return nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("could not create directory: %v", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		cfg.Output = output
	}

	if cfg.Log == "" {
		logPath, err := asker.Ask("Enter the log file name (leave empty for the default): ")
		if err != nil {
			return err
		}
		cfg.Log = logPath
	}
	return nil
}

func printInstructions() {
	ui.Header("\nTree Document - Consolidator")
	ui.Header("============================")
	ui.Info("This tool consolidates the contents of a directory into a single file.")
	ui.Info("\n1. Root directory: the directory to consolidate ('.' for the current one).")
	ui.Info("   Example: /Users/username/Documents/my_project or ./my_project")
	ui.Info("2. Output file: where to save the document. A directory gets consolidated_output.txt.")
	ui.Info("   Example: ./output/result.txt")
	ui.Info("3. Log file: defaults to a timestamped file next to the output.")
	ui.Header("============================\n")
}
