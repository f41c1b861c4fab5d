package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/treedoc/internal/config"
	"github.com/sokinpui/treedoc/internal/fs"
)

// Config holds all the command-line flag values.
type Config struct {
	// Root is the directory to consolidate. Empty means prompt for it.
	Root string
	// Document is the consolidation document to restore. Empty means stdin
	// or the clipboard.
	Document   string
	Output     string
	Log        string
	Dest       string
	ConfigPath string
	Restore    bool
	Revert     bool
	Clipboard  bool
	NoTUI      bool
	Verbose    bool
	Extensions []string

	flags *pflag.FlagSet
}

// ParseFlags parses os.Args.
func ParseFlags() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse defines and parses command-line flags using pflag.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("treedoc", pflag.ContinueOnError)
	cfg.flags = flags

	// Define flags
	flags.StringVarP(&cfg.Output, "output", "o", "", "Output file or directory for the consolidated document (default: current directory).")
	flags.StringVarP(&cfg.Log, "log", "l", "", "Error log file (default: next to the output or document).")
	flags.StringVarP(&cfg.Dest, "dest", "d", "", "Directory to restore into (default: rebuild).")
	flags.StringVar(&cfg.ConfigPath, "config", "", "Config file (default: ./.treedoc.yaml when present).")
	flags.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Only include files with these extensions (e.g., 'go', 'md').")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Copy the consolidated document to the clipboard.")
	flags.BoolVar(&cfg.NoTUI, "no-tui", false, "Print plain output instead of the interactive view.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print debug logging to stderr.")

	// Mutually exclusive mode group
	flags.BoolVarP(&cfg.Restore, "restore", "R", false, "Restore a consolidated document instead of consolidating.")
	flags.BoolVar(&cfg.Revert, "revert", false, "Revert the files written by the last restore.")

	flags.Usage = func() {
		fmt.Println("Usage: treedoc [flags] [root]")
		fmt.Println("       treedoc --restore [flags] [document]")
		fmt.Println("       treedoc --revert")
		fmt.Println("\nConsolidate a directory tree into one annotated text file, or restore it.")
		fmt.Println("\nExample: treedoc ./project -o dist/ && treedoc -R dist/consolidated_output.txt")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// Validate mutually exclusive flags
	if cfg.Restore && cfg.Revert {
		return nil, fmt.Errorf("error: --restore and --revert are mutually exclusive")
	}

	rest := flags.Args()
	if len(rest) > 1 {
		return nil, fmt.Errorf("error: expected at most one path argument, got %d", len(rest))
	}
	if len(rest) == 1 {
		switch {
		case cfg.Revert:
			return nil, fmt.Errorf("error: --revert takes no path argument")
		case cfg.Restore:
			cfg.Document = rest[0]
		default:
			cfg.Root = rest[0]
		}
	}

	cfg.Extensions = fs.NormalizeExtensions(cfg.Extensions)
	return cfg, nil
}

// ApplyFile fills in values from a config file for every flag that was not
// set explicitly.
func (c *Config) ApplyFile(file config.Config) {
	changed := func(name string) bool {
		return c.flags != nil && c.flags.Changed(name)
	}

	if !changed("output") && file.Output != "" {
		c.Output = file.Output
	}
	if !changed("log") && file.Log != "" {
		c.Log = file.Log
	}
	if !changed("dest") && file.RebuildDir != "" {
		c.Dest = file.RebuildDir
	}
	if !changed("extension") && len(file.Extensions) > 0 {
		c.Extensions = fs.NormalizeExtensions(file.Extensions)
	}
	if !changed("no-tui") && file.NoTUI {
		c.NoTUI = true
	}
}
