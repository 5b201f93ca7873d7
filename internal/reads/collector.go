package reads

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/vcf"
)

// Collector drives extraction for whole variants: locus translation,
// pileup construction, LocusRead extraction, and allele splitting.
type Collector struct {
	extractor *Extractor
	logger    *zap.Logger
}

// NewCollector creates a collector around an extractor with the given
// config.
func NewCollector(cfg Config) *Collector {
	return &Collector{
		extractor: NewExtractor(cfg),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for skip messages on the collector and its
// extractor.
func (c *Collector) SetLogger(l *zap.Logger) {
	c.logger = l
	c.extractor.SetLogger(l)
}

// LocusReads extracts every usable LocusRead for a locus from candidate
// records. Records are funneled through the pileup column at the base
// before the variant, so deletions and splice gaps spanning that column
// are rejected up front.
func (c *Collector) LocusReads(records []*sam.Record, locus Locus) []*LocusRead {
	col := ColumnAt(records, locus.Base0Before())

	var out []*LocusRead
	for _, elem := range col.Elements {
		lr := c.extractor.FromPileupElement(elem, locus.Base0Before(), locus.Base0After())
		if lr != nil {
			out = append(out, lr)
		}
	}
	return out
}

// AlleleReads converts locus reads to allele reads, dropping reads whose
// allele contains an ambiguous base.
func (c *Collector) AlleleReads(locusReads []*LocusRead) []*AlleleRead {
	var out []*AlleleRead
	for _, lr := range locusReads {
		ar := NewAlleleRead(lr)
		if ar == nil {
			c.logger.Debug("skipping read with ambiguous allele",
				zap.String("read", lr.Name))
			continue
		}
		out = append(out, ar)
	}
	return out
}

// EvidenceForVariant extracts the read evidence for one variant from
// candidate records overlapping its locus.
func (c *Collector) EvidenceForVariant(v *vcf.Variant, records []*sam.Record) *Evidence {
	locus := VariantLocus(v)
	locusReads := c.LocusReads(records, locus)
	return GatherEvidence(v, c.AlleleReads(locusReads))
}

// ScanBAM reads a BAM file once, sequentially, and dispatches records to
// every locus they overlap. Reference names are normalized so "chr12" and
// "12" reach the same loci. No BAM index is required.
func ScanBAM(path string, loci []Locus, threads int) (map[Locus][]*sam.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bam: %w", err)
	}
	defer f.Close()

	r, err := bam.NewReader(f, threads)
	if err != nil {
		return nil, fmt.Errorf("read bam header: %w", err)
	}
	defer r.Close()

	byChrom := make(map[string][]Locus)
	for _, l := range loci {
		chrom := genome.NormalizeChrom(l.Chrom)
		byChrom[chrom] = append(byChrom[chrom], l)
	}

	out := make(map[Locus][]*sam.Record, len(loci))
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bam record: %w", err)
		}
		if rec.Ref == nil || rec.Flags&sam.Unmapped != 0 {
			continue
		}

		chromLoci := byChrom[genome.NormalizeChrom(rec.Ref.Name())]
		if len(chromLoci) == 0 {
			continue
		}

		start := int64(rec.Pos)
		end := int64(rec.End())
		for _, l := range chromLoci {
			if start <= l.Base0After() && end > l.Base0Before() {
				out[l] = append(out[l], rec)
			}
		}
	}
	return out, nil
}
