package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	CommandServe   = "serve"
	CommandScan    = "scan"
	CommandHistory = "history"
)

var ErrUsage = errors.New("usage: phishguard <serve|scan|history> [flags]")

// CLIArgs are the parsed command-line arguments for one invocation.
type CLIArgs struct {
	Command string

	// ConfigPath points at an optional YAML config file.
	ConfigPath string

	// NoBanner suppresses the startup banner.
	NoBanner bool

	// serve
	Addr string

	// scan
	URL     string
	Content string

	// history
	Search string
	Risk   string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return nil, ErrUsage
	}
	out := &CLIArgs{Command: args[0], RawArgs: args}

	fs := flag.NewFlagSet("phishguard "+out.Command, flag.ContinueOnError)
	fs.StringVar(&out.ConfigPath, "config", "", "Path to a YAML config file")
	fs.BoolVar(&out.NoBanner, "no-banner", false, "Do not print the banner")

	switch out.Command {
	case CommandServe:
		fs.StringVar(&out.Addr, "addr", "", "Listen address (overrides config)")
	case CommandScan:
		fs.StringVar(&out.URL, "url", "", "URL to analyze (required)")
		fs.StringVar(&out.Content, "content", "", "Optional page or email content")
	case CommandHistory:
		fs.StringVar(&out.Search, "search", "", "URL substring filter")
		fs.StringVar(&out.Risk, "risk", "all", "Risk filter: all|high|medium|low")
	default:
		return nil, fmt.Errorf("unknown command %q: %w", out.Command, ErrUsage)
	}

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	if out.Command == CommandScan && strings.TrimSpace(out.URL) == "" {
		// Allow the URL as a positional argument.
		if fs.NArg() > 0 {
			out.URL = fs.Arg(0)
		} else {
			return nil, fmt.Errorf("missing required -url argument")
		}
	}
	return out, nil
}
