package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cardguard-dev/cardguard/internal/features"
	"github.com/cardguard-dev/cardguard/internal/intake"
	"github.com/cardguard-dev/cardguard/internal/logger"
	"github.com/cardguard-dev/cardguard/internal/model"
	"github.com/cardguard-dev/cardguard/internal/rawcsv"
	"github.com/cardguard-dev/cardguard/internal/runlog"
	"github.com/cardguard-dev/cardguard/internal/schema"
)

// maxReasons caps how many schema violations are spelled out in a
// rejection reason.
const maxReasons = 5

// Options configures a Runner. Directories are used as given.
type Options struct {
	IntakeDir     string
	ProcessedDir  string
	FinalDir      string
	LogDir        string
	Workers       int
	MoveValidated bool
}

// Result is the outcome of one raw file.
type Result struct {
	File   string
	Stage  model.Stage
	Rows   int
	Output string
	Reason string
}

// Accepted reports whether the file made it to the final directory.
func (r Result) Accepted() bool { return r.Stage == model.StageTransformed }

// Report summarizes one pipeline run.
type Report struct {
	RunID   string
	Started time.Time
	Results []Result
}

// Accepted returns the results that were transformed.
func (r *Report) Accepted() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Accepted() {
			out = append(out, res)
		}
	}
	return out
}

// Rejected returns the results that were rejected.
func (r *Report) Rejected() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Accepted() {
			out = append(out, res)
		}
	}
	return out
}

// Runner prepares labeled training data for every CSV in the intake
// directory.
type Runner struct {
	opts Options
	now  func() time.Time
}

// NewRunner creates a Runner. Workers below one are treated as one.
func NewRunner(opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{opts: opts, now: time.Now}
}

// Run processes every intake file. Files are independent: one file's
// failure is recorded in its Result and never stops the others. The
// returned error covers only run-level faults (scanning, run log).
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	log := logger.FromContext(ctx)

	files, err := intake.Scan(r.opts.IntakeDir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Started: r.now(),
		Results: make([]Result, len(files)),
	}
	log = log.With().Str("run_id", report.RunID).Logger()
	log.Info().Int("files", len(files)).Str("intake", r.opts.IntakeDir).Msg("starting run")

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, f := range files {
		i, f := i, f // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				report.Results[i] = Result{File: f.Name, Stage: model.StageRejected, Reason: err.Error()}
				return nil
			}
			res := r.processFile(f)
			report.Results[i] = res

			ev := log.Info()
			if !res.Accepted() {
				ev = log.Warn()
			}
			ev.Str("file", res.File).Str("stage", string(res.Stage)).Int("rows", res.Rows).
				Str("reason", res.Reason).Msg("file processed")
			return nil
		})
	}
	_ = g.Wait()

	if r.opts.LogDir != "" && len(report.Results) > 0 {
		if err := runlog.Append(r.opts.LogDir, entries(report, r.now())); err != nil {
			return report, fmt.Errorf("writing run log: %w", err)
		}
	}

	log.Info().Int("accepted", len(report.Accepted())).Int("rejected", len(report.Rejected())).Msg("run finished")
	return report, nil
}

func (r *Runner) processFile(f intake.FileInfo) Result {
	dst := filepath.Join(r.opts.FinalDir, f.Name)
	res := PrepareFile(f.Path, dst, true)
	res.File = f.Name
	if !res.Accepted() || !r.opts.MoveValidated {
		return res
	}
	if err := intake.MarkProcessed(f.Path, r.opts.ProcessedDir); err != nil {
		res.Reason = err.Error()
	}
	return res
}

// PrepareFile reads the raw batch at src, validates it when labeled,
// transforms it and writes the feature CSV to dst. Unlabeled (serving)
// batches skip validation and are transformed as given.
func PrepareFile(src, dst string, labeled bool) Result {
	res := Result{File: filepath.Base(src), Stage: model.StageIngested}

	b, err := rawcsv.ReadFile(src)
	if err != nil {
		return reject(res, err.Error())
	}
	res.Rows = b.Len()

	if labeled {
		if errs := schema.Check(b); len(errs) > 0 {
			return reject(res, schemaReason(errs))
		}
		res.Stage = model.StageValidated
	}

	fb, err := features.Transform(b, labeled)
	if err != nil {
		return reject(res, err.Error())
	}
	if err := features.WriteFile(dst, fb); err != nil {
		return reject(res, err.Error())
	}

	res.Stage = model.StageTransformed
	res.Output = dst
	return res
}

func reject(res Result, reason string) Result {
	res.Stage = model.StageRejected
	res.Reason = reason
	return res
}

func schemaReason(errs []schema.SchemaError) string {
	n := min(len(errs), maxReasons)
	msgs := make([]string, 0, n+1)
	for _, e := range errs[:n] {
		msgs = append(msgs, e.Error())
	}
	if len(errs) > n {
		msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-n))
	}
	return strings.Join(msgs, "; ")
}

func entries(report *Report, at time.Time) []runlog.Entry {
	out := make([]runlog.Entry, len(report.Results))
	for i, res := range report.Results {
		out[i] = runlog.Entry{
			Timestamp: at,
			RunID:     report.RunID,
			File:      res.File,
			Stage:     res.Stage,
			Rows:      res.Rows,
			Output:    res.Output,
			Reason:    res.Reason,
		}
	}
	return out
}
