// Package pipeline orchestrates per-variant processing: effect
// prediction, read evidence extraction, optional protein sequence
// assembly, and filtering, fanned out across a worker pool.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"

	"github.com/biogo/hts/sam"

	"github.com/openvax/isovar-go/internal/effect"
	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/output"
	"github.com/openvax/isovar-go/internal/proteinseq"
	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/result"
	"github.com/openvax/isovar-go/internal/resultdb"
	"github.com/openvax/isovar-go/internal/vcf"
)

// Pipeline turns variants plus alignment records into results.
type Pipeline struct {
	index      *genome.Index
	collector  *reads.Collector
	thresholds *result.FilterThresholds
	creator    proteinseq.Creator
	workers    int
	logger     *zap.Logger
}

// New creates a pipeline. The protein sequence creator is optional and
// defaults to none; the worker count defaults to runtime.NumCPU().
func New(ix *genome.Index, collector *reads.Collector, thresholds *result.FilterThresholds) *Pipeline {
	return &Pipeline{
		index:      ix,
		collector:  collector,
		thresholds: thresholds,
		workers:    runtime.NumCPU(),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger on the pipeline and its collector.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
	if p.collector != nil {
		p.collector.SetLogger(l)
	}
}

// SetCreator installs a protein sequence assembler.
func (p *Pipeline) SetCreator(c proteinseq.Creator) {
	p.creator = c
}

// SetWorkers overrides the worker count; non-positive values are ignored.
func (p *Pipeline) SetWorkers(n int) {
	if n > 0 {
		p.workers = n
	}
}

// ProcessVariant builds the result for one variant from the records
// overlapping its locus. The only error is a filter configuration error;
// everything read-level degrades to logged skips.
func (p *Pipeline) ProcessVariant(v *vcf.Variant, records []*sam.Record) (*result.Result, error) {
	eff := effect.PredictEffect(v, p.index)
	ev := p.collector.EvidenceForVariant(v, records)

	var seqs []*proteinseq.ProteinSequence
	if p.creator != nil {
		seqs = p.creator.ProteinSequencesForVariant(v, ev)
	}

	r := &result.Result{
		Variant:                v,
		PredictedEffect:        eff,
		ReadEvidence:           ev,
		SortedProteinSequences: seqs,
		GenomeIndex:            p.index,
	}
	fv, err := r.ApplyFilters(p.thresholds)
	if err != nil {
		return nil, err
	}
	return r.CloneWith(result.WithFilterValues(fv)), nil
}

// Run processes variants across the worker pool and returns one result
// per variant in input order. A filter configuration error or context
// cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, variants []*vcf.Variant, recordsByLocus map[reads.Locus][]*sam.Record) ([]*result.Result, error) {
	items := make(chan WorkItem, 2*p.workers)

	go func() {
		defer close(items)
		for i, v := range variants {
			item := WorkItem{
				Seq:     i,
				Variant: v,
				Records: recordsByLocus[reads.VariantLocus(v)],
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := p.parallelProcess(items, p.workers)

	out := make([]*result.Result, 0, len(variants))
	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			return r.Err
		}
		out = append(out, r.Result)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FileOptions configures an end-to-end RunFiles invocation.
type FileOptions struct {
	// Source yields the variants to process; the caller closes it.
	Source vcf.VariantSource

	BAMPath    string
	BAMThreads int

	// Genome is used as-is when set; otherwise GenomeDir and Assembly
	// drive a loader.
	Genome    *genome.Index
	GenomeDir string
	Assembly  string

	Extraction reads.Config
	Thresholds *result.FilterThresholds
	Creator    proteinseq.Creator
	Workers    int

	Output io.Writer
	Format output.Format

	// Store persists results when set.
	Store *resultdb.Store

	Logger *zap.Logger
}

// RunFiles is the end-to-end driver behind the report command: load the
// genome, read the variants, scan the BAM once, process every variant,
// write the report, and optionally persist to DuckDB.
func RunFiles(ctx context.Context, opts FileOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ix := opts.Genome
	if ix == nil {
		loader := genome.NewLoader(opts.GenomeDir, opts.Assembly)
		loader.SetLogger(logger)
		var err error
		ix, err = loader.Load()
		if err != nil {
			return fmt.Errorf("load genome: %w", err)
		}
	}

	var variants []*vcf.Variant
	for {
		v, err := opts.Source.Next()
		if err != nil {
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}
		variants = append(variants, v)
	}
	logger.Info("variants loaded", zap.Int("count", len(variants)))

	loci := make([]reads.Locus, 0, len(variants))
	for _, v := range variants {
		loci = append(loci, reads.VariantLocus(v))
	}
	recordsByLocus, err := reads.ScanBAM(opts.BAMPath, loci, opts.BAMThreads)
	if err != nil {
		return err
	}

	collector := reads.NewCollector(opts.Extraction)
	collector.SetLogger(logger)

	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = result.DefaultFilterThresholds()
	}

	p := New(ix, collector, thresholds)
	p.SetLogger(logger)
	p.SetCreator(opts.Creator)
	p.SetWorkers(opts.Workers)

	results, err := p.Run(ctx, variants, recordsByLocus)
	if err != nil {
		return err
	}

	if opts.Output != nil {
		format := opts.Format
		if format == "" {
			format = output.FormatTSV
		}
		w := output.NewRecordWriter(opts.Output, format)
		for _, r := range results {
			if err := w.Write(r.ToRecord()); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
	}

	if opts.Store != nil {
		if err := opts.Store.WriteResults(results); err != nil {
			return fmt.Errorf("store results: %w", err)
		}
	}

	logger.Info("report complete",
		zap.Int("variants", len(variants)),
		zap.Int("results", len(results)))
	return nil
}
