// Package pipeline runs one citesort job: read, parse, sort, write.
package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/FocuswithJustin/citesort/core/citation"
	"github.com/FocuswithJustin/citesort/core/errors"
	"github.com/FocuswithJustin/citesort/core/render"
	"github.com/FocuswithJustin/citesort/core/runner"
	"github.com/FocuswithJustin/citesort/core/sorting"
	"github.com/FocuswithJustin/citesort/internal/logging"
	"github.com/FocuswithJustin/citesort/internal/source"
	"github.com/FocuswithJustin/citesort/internal/validation"
)

// DefaultOutput is the output path used when none is given.
const DefaultOutput = "SortedCitations.txt"

// NoSortNotice is printed on the console when the user chose not to sort.
const NoSortNotice = "Based on your input you do not want to sort the citations"

// Options configures Run.
type Options struct {
	Input  string
	Output string
	Mode   sorting.Mode
	// DefaultYear is the year given to records without one; 0 selects
	// citation.DefaultYear.
	DefaultYear    int
	LegacyYear     bool
	SkipMalformed  bool
	EachPass       bool
	Indent         string
	TranscriptPath string
}

// Result summarizes a finished run.
type Result struct {
	RunID     string
	Mode      sorting.Mode
	Parsed    int
	Skipped   []citation.Skipped
	Output    string // empty when nothing was written
	Bytes     int64
	Citations []*citation.Citation
	Duration  time.Duration
}

// Validate checks every option and returns all problems joined together.
func (o *Options) Validate() error {
	var errs []error

	if err := validation.ValidatePath(o.Input); err != nil {
		errs = append(errs, &errors.ValidationError{Field: "input", Value: o.Input, Message: err.Error()})
	}
	if o.Mode != sorting.None {
		if err := validation.ValidatePath(o.Output); err != nil {
			errs = append(errs, &errors.ValidationError{Field: "out", Value: o.Output, Message: err.Error()})
		} else if o.Input != "" {
			if err := validation.ValidateDistinctPaths(o.Input, o.Output); err != nil {
				errs = append(errs, &errors.ValidationError{Field: "out", Value: o.Output, Message: err.Error()})
			}
		}
	}
	if _, err := sorting.ParseMode(string(o.Mode)); err != nil {
		errs = append(errs, err)
	}
	if o.DefaultYear < 0 {
		errs = append(errs, errors.NewValidation("default-year", fmt.Sprintf("must not be negative, got %d", o.DefaultYear)))
	}
	if o.TranscriptPath != "" {
		if err := validation.ValidatePath(o.TranscriptPath); err != nil {
			errs = append(errs, &errors.ValidationError{Field: "transcript", Value: o.TranscriptPath, Message: err.Error()})
		}
	}

	return stderrors.Join(errs...)
}

func (o *Options) parseOptions() citation.Options {
	opts := citation.Options{
		DefaultYear:   o.DefaultYear,
		SkipMalformed: o.SkipMalformed,
	}
	if o.LegacyYear {
		opts.YearPolicy = citation.YearFixedWindow
	}
	return opts
}

// Run executes one job. console receives the advisory line of mode None;
// formatted records go to opts.Output only.
func Run(ctx context.Context, opts Options, console io.Writer) (*Result, error) {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var rec *runner.Recorder
	if opts.TranscriptPath != "" {
		rec = runner.NewRecorder()
		ctx = logging.WithRunID(ctx, rec.RunID())
	}

	res, err := run(ctx, opts, console, rec)
	if err != nil {
		rec.Record(runner.TranscriptEvent{Type: runner.EventError, Message: err.Error()})
	}
	rec.Record(runner.TranscriptEvent{Type: runner.EventRunEnd, Mode: string(opts.Mode)})
	if saveErr := rec.Save(opts.TranscriptPath); saveErr != nil {
		if err == nil {
			err = errors.Wrap(saveErr, "failed to save transcript")
		} else {
			logging.WarnContext(ctx, "transcript not saved", "path", opts.TranscriptPath, "error", saveErr)
		}
	}
	if err != nil {
		return nil, err
	}

	res.RunID = rec.RunID()
	res.Duration = time.Since(start)
	logging.RunSummary(ctx, string(res.Mode), res.Parsed, len(res.Skipped), res.Duration,
		"output", res.Output, "bytes", res.Bytes)
	return res, nil
}

func run(ctx context.Context, opts Options, console io.Writer, rec *runner.Recorder) (*Result, error) {
	rec.Record(runner.TranscriptEvent{
		Type: runner.EventRunStart,
		Mode: string(opts.Mode),
		Attributes: map[string]interface{}{
			"year_policy":    opts.parseOptions().YearPolicy.String(),
			"skip_malformed": opts.SkipMalformed,
		},
	})

	in, err := source.ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateText(in.Data); err != nil {
		return nil, &errors.ValidationError{Field: "input", Value: opts.Input, Message: err.Error()}
	}
	sha, b3 := runner.Digest(in.Data)
	rec.Record(runner.TranscriptEvent{
		Type:       runner.EventInputRead,
		Path:       in.Path,
		SHA256:     sha,
		BLAKE3:     b3,
		Bytes:      int64(len(in.Data)),
		Attributes: map[string]interface{}{"compressed": in.Compressed},
	})
	logging.DebugContext(ctx, "input read", "path", in.Path, "bytes", len(in.Data), "compressed", in.Compressed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := citation.Load(bytes.NewReader(in.Data))
	if err != nil {
		return nil, errors.NewIO("read", in.Path, err)
	}
	parsed, err := citation.Parse(text, opts.parseOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", in.Path)
	}

	for _, s := range parsed.Skipped {
		logging.RecordSkipped(ctx, s.Index+1, s.Err)
		rec.Record(runner.TranscriptEvent{Type: runner.EventRecordSkipped, Record: s.Index + 1, Message: s.Err.Error()})
	}
	for _, c := range parsed.Citations {
		attrs := map[string]interface{}{"year": c.Year}
		if c.YearDefaulted {
			attrs["year_defaulted"] = true
		}
		rec.Record(runner.TranscriptEvent{Type: runner.EventRecordParsed, Record: c.Index + 1, Key: c.ID, Attributes: attrs})
	}
	if parsed.Blocks == 0 {
		logging.WarnContext(ctx, "input has no citation records", "path", in.Path)
		rec.Record(runner.TranscriptEvent{Type: runner.EventWarn, Path: in.Path, Message: "input has no citation records"})
	}

	res := &Result{
		Mode:      opts.Mode,
		Parsed:    len(parsed.Citations),
		Skipped:   parsed.Skipped,
		Citations: parsed.Citations,
	}

	if !opts.Mode.Sorts() {
		fmt.Fprintln(console, NoSortNotice)
		rec.Record(runner.TranscriptEvent{Type: runner.EventNotice, Message: NoSortNotice})
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := write(ctx, opts, parsed.Citations, rec)
	if err != nil {
		return nil, err
	}
	res.Output = opts.Output
	res.Bytes = n
	return res, nil
}

func write(ctx context.Context, opts Options, cs []*citation.Citation, rec *runner.Recorder) (int64, error) {
	out, err := source.Create(opts.Output)
	if err != nil {
		return 0, err
	}
	digest := runner.NewDigester()
	w := render.NewWriter(io.MultiWriter(out, digest), opts.Indent)

	w.WriteBanner(opts.Mode)
	sorting.Apply(cs, opts.Mode, func(pass int, cmp sorting.Comparator, cs []*citation.Citation) {
		logging.SortPass(ctx, pass, cmp.Name, len(cs))
		rec.Record(runner.TranscriptEvent{Type: runner.EventSortPass, Pass: pass, Key: cmp.Name, Attributes: map[string]interface{}{"order": ids(cs)}})
		if opts.EachPass {
			w.WritePass(pass, cmp, cs)
		}
	})
	if !opts.EachPass {
		w.WriteRecords(cs)
	}

	if err := w.Err(); err != nil {
		out.Close()
		return 0, errors.NewIO("write", opts.Output, err)
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	sha, b3 := digest.Sums()
	rec.Record(runner.TranscriptEvent{
		Type:       runner.EventOutputWritten,
		Path:       opts.Output,
		SHA256:     sha,
		BLAKE3:     b3,
		Bytes:      w.BytesWritten(),
		Attributes: map[string]interface{}{"compressed": out.Compressed()},
	})
	return w.BytesWritten(), nil
}

func ids(cs []*citation.Citation) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
