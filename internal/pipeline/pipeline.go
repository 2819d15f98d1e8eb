package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/crimson-sun/triage/internal/dataset"
	"github.com/crimson-sun/triage/internal/engine/taxonomy"
	"github.com/crimson-sun/triage/internal/model"
	"github.com/crimson-sun/triage/internal/output"
)

// Source yields the raw labeled rows of every split.
type Source interface {
	Load(ctx context.Context) ([]model.RawExample, error)
}

// Preparer turns a raw row into a training example. Rows with a category
// outside the fixed map fail with an error matching taxonomy.ErrUnmapped.
type Preparer interface {
	Prepare(raw model.RawExample) (model.Example, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStrict makes any unmapped row fail the run before anything is written.
// By default unmapped rows are dropped and reported.
func WithStrict(strict bool) Option {
	return func(p *Pipeline) { p.strict = strict }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline connects a dataset source, a preparer, and an output.
type Pipeline struct {
	source Source
	prep   Preparer
	out    output.Output
	strict bool
	log    *slog.Logger
}

// New creates a Pipeline from the given components.
func New(src Source, prep Preparer, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: src,
		prep:   prep,
		out:    out,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads every row, remaps and tokenizes it, and writes the result to the
// output. The returned report is valid even when err is non-nil and covers
// the rows seen before the failure.
func (p *Pipeline) Run(ctx context.Context) (*dataset.Report, error) {
	report := dataset.NewReport()

	raws, err := p.source.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("pipeline load: %w", err)
	}
	p.log.Info("dataset loaded", "rows", len(raws))

	if p.strict {
		if err := checkMapped(raws, report); err != nil {
			return report, err
		}
	}

	enc := taxonomy.DefaultEncoding()
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ex, err := p.prep.Prepare(raw)
		if errors.Is(err, taxonomy.ErrUnmapped) {
			report.AddUnmapped(raw.Category)
			p.log.Debug("dropping unmapped row", "split", raw.Split, "row", raw.Row, "category", raw.Category)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("pipeline prepare: %w", err)
		}
		if err := p.out.Write(ctx, ex); err != nil {
			return report, fmt.Errorf("pipeline output: %w", err)
		}
		label, _ := enc.Label(ex.LabelID)
		report.AddKept(ex.Split, label)
	}

	if n := report.UnmappedRows(); n > 0 {
		p.log.Warn("unmapped categories dropped", "rows", n, "categories", len(report.Unmapped))
	}
	p.log.Info("dataset prepared", "kept", report.Kept, "total", report.Total)
	return report, nil
}

// checkMapped records every unmapped row in report and returns one
// *taxonomy.DataQualityError per distinct category, joined.
func checkMapped(raws []model.RawExample, report *dataset.Report) error {
	for _, raw := range raws {
		if !taxonomy.Known(raw.Category) {
			report.AddUnmapped(raw.Category)
		}
	}
	if len(report.Unmapped) == 0 {
		return nil
	}

	cats := make([]string, 0, len(report.Unmapped))
	for c := range report.Unmapped {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	errs := make([]error, len(cats))
	for i, c := range cats {
		errs[i] = &taxonomy.DataQualityError{Category: c}
	}
	return fmt.Errorf("pipeline: %d rows in %d unmapped categories: %w",
		report.UnmappedRows(), len(cats), errors.Join(errs...))
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.out.Close()
}
