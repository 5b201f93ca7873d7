// Package reads extracts variant-supporting read evidence from alignments:
// locus-anchored reads, allele partitioning, and BAM scanning.
package reads

import (
	"go.uber.org/zap"

	"github.com/biogo/hts/sam"
)

// RefPosNone marks a read base aligned to no reference position
// (soft-clipped or inserted).
const RefPosNone = int64(-1)

// mapqUnavailable is the SAM sentinel for a missing mapping quality.
const mapqUnavailable = 255

// LocusRead is one alignment anchored to a variant locus. Offsets index
// into Sequence; ReferencePositions and QualityScores run parallel to it.
// Values are never mutated after construction.
type LocusRead struct {
	Name               string
	Sequence           string
	ReferencePositions []int64
	QualityScores      []byte

	// Read-local indices of the reference bases flanking the variant:
	// ReferencePositions[ReadPosBeforeVariant] is the base-0 locus start
	// boundary and ReferencePositions[ReadPosAfterVariant] the end boundary.
	ReadPosBeforeVariant int
	ReadPosAfterVariant  int
}

// Config controls which alignments contribute read evidence.
type Config struct {
	UseSecondaryAlignments bool
	UseDuplicateReads      bool
	MinMappingQuality      int
	UseSoftClippedBases    bool
}

// DefaultConfig matches the defaults of the original tool: secondary
// alignments kept, duplicates dropped, MAPQ >= 1, soft clips trimmed.
func DefaultConfig() Config {
	return Config{
		UseSecondaryAlignments: true,
		UseDuplicateReads:      false,
		MinMappingQuality:      1,
		UseSoftClippedBases:    false,
	}
}

// Extractor turns alignment records into LocusReads.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates an extractor with the given config.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for per-read skip messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// FromAlignment extracts a LocusRead anchored at the two base-0 reference
// positions flanking a variant. Returns nil when the read is filtered out;
// every rejection is a logged skip, never an error.
func (e *Extractor) FromAlignment(rec *sam.Record, base0PosBeforeVariant, base0PosAfterVariant int64) *LocusRead {
	if rec.Name == "" {
		e.logger.Warn("skipping read with no name")
		return nil
	}
	if rec.Flags&sam.Unmapped != 0 {
		e.logger.Warn("skipping unmapped read", zap.String("read", rec.Name))
		return nil
	}
	if rec.Flags&sam.Secondary != 0 && !e.cfg.UseSecondaryAlignments {
		e.logger.Debug("skipping secondary alignment", zap.String("read", rec.Name))
		return nil
	}
	if rec.Flags&sam.Duplicate != 0 && !e.cfg.UseDuplicateReads {
		e.logger.Debug("skipping duplicate read", zap.String("read", rec.Name))
		return nil
	}

	// MAPQ 255 means the aligner did not report a quality. A threshold of
	// zero disables the check entirely, so missing values pass it; any
	// positive threshold rejects them.
	if rec.MapQ == mapqUnavailable {
		if e.cfg.MinMappingQuality > 0 {
			e.logger.Debug("skipping read with missing mapping quality",
				zap.String("read", rec.Name))
			return nil
		}
	} else if int(rec.MapQ) < e.cfg.MinMappingQuality {
		e.logger.Debug("skipping read below mapping quality threshold",
			zap.String("read", rec.Name),
			zap.Int("mapq", int(rec.MapQ)),
			zap.Int("min", e.cfg.MinMappingQuality))
		return nil
	}

	seq := rec.Seq.Expand()
	if len(seq) == 0 {
		e.logger.Warn("skipping read with empty sequence", zap.String("read", rec.Name))
		return nil
	}
	quals := rec.Qual
	if len(quals) == 0 {
		e.logger.Warn("skipping read with no base qualities", zap.String("read", rec.Name))
		return nil
	}

	positions := referencePositions(rec, len(seq))
	if len(positions) != len(seq) {
		e.logger.Warn("skipping read whose cigar does not cover its sequence",
			zap.String("read", rec.Name))
		return nil
	}

	beforeIdx := firstIndexOf(positions, base0PosBeforeVariant)
	afterIdx := firstIndexOf(positions, base0PosAfterVariant)
	if beforeIdx < 0 || afterIdx < 0 {
		e.logger.Debug("skipping read not aligned across locus",
			zap.String("read", rec.Name),
			zap.Int64("before", base0PosBeforeVariant),
			zap.Int64("after", base0PosAfterVariant))
		return nil
	}

	if !e.cfg.UseSoftClippedBases {
		start, end := alignedBounds(rec.Cigar, len(seq))
		if start > 0 || end < len(seq) {
			seq = seq[start:end]
			positions = positions[start:end]
			quals = quals[start:end]
			beforeIdx -= start
			afterIdx -= start
		}
	}

	qs := make([]byte, len(quals))
	copy(qs, quals)

	return &LocusRead{
		Name:                 rec.Name,
		Sequence:             string(seq),
		ReferencePositions:   positions,
		QualityScores:        qs,
		ReadPosBeforeVariant: beforeIdx,
		ReadPosAfterVariant:  afterIdx,
	}
}

// referencePositions builds the per-base reference position array for a
// record: aligned bases carry their base-0 reference position, inserted
// and soft-clipped bases carry RefPosNone, and deletions or splice gaps
// advance the reference cursor without emitting entries.
func referencePositions(rec *sam.Record, readLen int) []int64 {
	positions := make([]int64, 0, readLen)
	refPos := int64(rec.Pos)

	for _, co := range rec.Cigar {
		con := co.Type().Consumes()
		n := co.Len()
		switch {
		case con.Query == 1 && con.Reference == 1:
			for i := 0; i < n; i++ {
				positions = append(positions, refPos+int64(i))
			}
			refPos += int64(n)
		case con.Query == 1:
			for i := 0; i < n; i++ {
				positions = append(positions, RefPosNone)
			}
		case con.Reference == 1:
			refPos += int64(n)
		}
	}
	return positions
}

func firstIndexOf(positions []int64, target int64) int {
	for i, p := range positions {
		if p == target {
			return i
		}
	}
	return -1
}

// alignedBounds returns the half-open read-local range of bases that are
// not soft-clipped.
func alignedBounds(cigar sam.Cigar, readLen int) (int, int) {
	start := 0
	for _, co := range cigar {
		if co.Type() == sam.CigarSoftClipped {
			start += co.Len()
			continue
		}
		if co.Type() == sam.CigarHardClipped {
			continue
		}
		break
	}

	end := readLen
	for i := len(cigar) - 1; i >= 0; i-- {
		if cigar[i].Type() == sam.CigarSoftClipped {
			end -= cigar[i].Len()
			continue
		}
		if cigar[i].Type() == sam.CigarHardClipped {
			continue
		}
		break
	}
	return start, end
}
