// Package pipeline sequences one report through classification, parsing,
// normalization and a single output sink.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redshirtrob/blb-extractor/internal/classify"
	"github.com/redshirtrob/blb-extractor/internal/flatten"
	"github.com/redshirtrob/blb-extractor/internal/ingestion"
	"github.com/redshirtrob/blb-extractor/internal/logging"
	"github.com/redshirtrob/blb-extractor/internal/observability"
	"github.com/redshirtrob/blb-extractor/internal/output"
	"github.com/redshirtrob/blb-extractor/internal/parsing"
	"github.com/redshirtrob/blb-extractor/internal/registry"
	"github.com/redshirtrob/blb-extractor/internal/types"
)

// Status is how a run ended when it did not fail.
type Status int

const (
	// StatusRouted means the payload reached the sink.
	StatusRouted Status = iota
	// StatusUnclassified means no report marker matched; nothing was parsed or written.
	StatusUnclassified
)

func (s Status) String() string {
	if s == StatusUnclassified {
		return "unclassified"
	}
	return "routed"
}

// Outcome describes a run that did not fail.
type Outcome struct {
	Status      Status
	Kind        types.ReportKind
	Sink        string
	Destination string
	Metadata    *ingestion.Metadata
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ParseFunc turns report content into a raw tree.
type ParseFunc func(content string, kind types.ReportKind, reg registry.Registry) (types.Tree, error)

// RunOptions holds configuration for one pipeline run. Sink is chosen before the
// run starts and is the only place output goes.
type RunOptions struct {
	Path      string
	Registry  registry.Registry
	SkipClean bool
	// AllowUnknown keeps an unrecognized report silent instead of logging a warning.
	AllowUnknown bool
	Sink         output.Sink
	// Parse defaults to parsing.Parse.
	Parse ParseFunc
	// Printer receives verbose summaries when set.
	Printer    *observability.Printer
	OnProgress ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message})
	}
}

// Run reads the report at opts.Path and processes it.
func Run(ctx context.Context, opts RunOptions) (*Outcome, error) {
	report, metadata, err := ingestion.ReadReport(opts.Path)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, "ingest", fmt.Sprintf("read %d bytes (%s)", metadata.Bytes, metadata.Encoding))
	if opts.Printer != nil {
		opts.Printer.PrintIngest(metadata)
	}

	outcome, err := Process(ctx, report, opts)
	if outcome != nil {
		outcome.Metadata = metadata
	}
	return outcome, err
}

// Process runs an already loaded report through the stages. An Unknown report
// stops before parsing with StatusUnclassified. Any stage error aborts the run
// before the sink is touched.
func Process(ctx context.Context, report *types.RawReport, opts RunOptions) (*Outcome, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("no output sink configured")
	}
	parse := opts.Parse
	if parse == nil {
		parse = parsing.Parse
	}
	logger := logging.New("pipeline").With(slog.String("file", report.Basename()))

	kind := classify.Classify(report.Content)
	emitProgress(&opts, "classify", kind.String())
	if opts.Printer != nil {
		opts.Printer.PrintClassification(report.Basename(), kind)
	}
	if !kind.Known() {
		if opts.AllowUnknown {
			logger.Debug("report kind not recognized, nothing parsed")
		} else {
			logger.Warn("report kind not recognized, nothing parsed")
		}
		return &Outcome{Status: StatusUnclassified, Kind: kind}, nil
	}

	raw, err := parse(report.Content, kind, opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", report.Basename(), err)
	}
	emitProgress(&opts, "parse", fmt.Sprintf("parsed %s report for league %s", kind, opts.Registry.League))

	view := flatten.Normalize(raw)
	var flat types.Tree
	if !opts.SkipClean {
		flat = view
		emitProgress(&opts, "normalize", "normalized")
	}
	if opts.Printer != nil {
		opts.Printer.PrintBoxscores(view)
	}

	payload := &output.Payload{
		Report:   report,
		Kind:     kind,
		League:   opts.Registry.League,
		Raw:      raw,
		Flat:     flat,
		DateView: view,
	}
	destination, err := opts.Sink.Emit(ctx, payload)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, "emit", destination)
	logger.Debug("report routed", slog.String("sink", opts.Sink.Name()), slog.String("destination", destination))
	if opts.Printer != nil {
		opts.Printer.PrintDestination(opts.Sink.Name(), destination)
	}

	return &Outcome{
		Status:      StatusRouted,
		Kind:        kind,
		Sink:        opts.Sink.Name(),
		Destination: destination,
	}, nil
}
