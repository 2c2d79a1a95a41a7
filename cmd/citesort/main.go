// Command citesort sorts the records of a BibTeX-style bibliography by
// identifier and/or year and writes them back out one field per line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	cerrors "github.com/FocuswithJustin/citesort/core/errors"
	"github.com/FocuswithJustin/citesort/core/sorting"
	"github.com/FocuswithJustin/citesort/internal/logging"
	"github.com/FocuswithJustin/citesort/internal/pipeline"
	"github.com/FocuswithJustin/citesort/internal/prompt"
)

const version = "0.1.0"

// CLI defines the command-line interface for citesort.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"CITESORT_LOG_LEVEL" help:"Log level (${enum})"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"CITESORT_LOG_FORMAT" help:"Log format (${enum})"`

	Sort    SortCmd    `cmd:"" default:"withargs" help:"Sort a bibliography file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// SortCmd reads, sorts and rewrites one bibliography.
type SortCmd struct {
	Input         string `arg:"" optional:"" help:"Bibliography file, plain or .xz (asked for when omitted)" type:"path"`
	Mode          string `short:"m" env:"CITESORT_MODE" help:"Sort mode: id-then-year, year-then-id, id, year or none (asked for when omitted)"`
	Out           string `short:"o" default:"SortedCitations.txt" env:"CITESORT_OUT" type:"path" help:"Output file; a .xz suffix compresses it"`
	DefaultYear   int    `name:"default-year" default:"2021" env:"CITESORT_DEFAULT_YEAR" help:"Year assigned to records without a year field (must be positive)"`
	LegacyYear    bool   `name:"legacy-year" env:"CITESORT_LEGACY_YEAR" help:"Read the year from the 4 characters 6 bytes after the first \"year\""`
	SkipMalformed bool   `name:"skip-malformed" env:"CITESORT_SKIP_MALFORMED" help:"Log and skip malformed records instead of failing"`
	EachPass      bool   `name:"each-pass" env:"CITESORT_EACH_PASS" help:"Write the full list after every sort pass"`
	Indent        string `env:"CITESORT_INDENT" help:"Indent for continuation lines (default: tab)"`
	Transcript    string `env:"CITESORT_TRANSCRIPT" type:"path" help:"Write a JSONL run transcript to this path"`
}

func (c *SortCmd) Run() error {
	p := prompt.New(os.Stdin, os.Stdout)
	p.Echo = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	return c.execute(context.Background(), p, os.Stdout)
}

func (c *SortCmd) execute(ctx context.Context, p *prompt.Prompter, console io.Writer) error {
	// pipeline.Options treats 0 as "package default"; an explicit 0 on the
	// command line is a mistake, not a request for 2021.
	if c.DefaultYear <= 0 {
		return &cerrors.ValidationError{
			Field:   "default-year",
			Value:   strconv.Itoa(c.DefaultYear),
			Message: fmt.Sprintf("must be a positive year, got %d", c.DefaultYear),
		}
	}

	if c.Input == "" {
		path, err := p.AskPath()
		if err != nil {
			return fmt.Errorf("failed to read input path: %w", err)
		}
		c.Input = path
	}

	var mode sorting.Mode
	if c.Mode == "" {
		m, err := p.AskMode()
		if err != nil {
			return fmt.Errorf("failed to read sort mode: %w", err)
		}
		mode = m
	} else {
		m, err := sorting.ParseMode(c.Mode)
		if err != nil {
			return err
		}
		mode = m
	}

	_, err := pipeline.Run(ctx, pipeline.Options{
		Input:          c.Input,
		Output:         c.Out,
		Mode:           mode,
		DefaultYear:    c.DefaultYear,
		LegacyYear:     c.LegacyYear,
		SkipMalformed:  c.SkipMalformed,
		EachPass:       c.EachPass,
		Indent:         c.Indent,
		TranscriptPath: c.Transcript,
	}, console)
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("citesort version %s\n", version)
	return nil
}

func setupLogging(level, format string) error {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	f, err := logging.ParseFormat(format)
	if err != nil {
		return err
	}
	logging.InitLogger(os.Stderr, lvl, f)
	return nil
}

// loadDotEnv reads .env from the working directory. A missing file is not
// an error; variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func main() {
	envErr := loadDotEnv()

	ctx := kong.Parse(&CLI,
		kong.Name("citesort"),
		kong.Description("Sort BibTeX-style citations by identifier and year"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(setupLogging(CLI.LogLevel, CLI.LogFormat))
	if envErr != nil {
		logging.Warn("ignoring .env", "error", envErr)
	}

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
