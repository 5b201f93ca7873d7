package reads

import (
	"go.uber.org/zap"

	"github.com/biogo/hts/sam"
)

// PileupElement is one read's intersection with a pileup column.
type PileupElement struct {
	Record *sam.Record

	// QueryPos is the read-local index of the base aligned to the column,
	// -1 when the column falls in a deletion or splice gap.
	QueryPos  int
	IsDel     bool
	IsRefSkip bool
}

// PileupColumn holds the elements covering one base-0 reference position,
// in record order.
type PileupColumn struct {
	Pos      int64
	Elements []PileupElement
}

// ColumnAt builds the pileup column at a base-0 reference position from
// alignment records. Reads whose alignment does not span the position are
// excluded.
func ColumnAt(records []*sam.Record, pos int64) PileupColumn {
	col := PileupColumn{Pos: pos}
	for _, rec := range records {
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		elem, ok := elementAt(rec, pos)
		if !ok {
			continue
		}
		col.Elements = append(col.Elements, elem)
	}
	return col
}

// elementAt walks a record's CIGAR to locate one reference position.
func elementAt(rec *sam.Record, pos int64) (PileupElement, bool) {
	refPos := int64(rec.Pos)
	queryPos := 0

	for _, co := range rec.Cigar {
		con := co.Type().Consumes()
		n := int64(co.Len())

		if con.Reference == 1 && pos >= refPos && pos < refPos+n {
			if con.Query == 1 {
				return PileupElement{
					Record:   rec,
					QueryPos: queryPos + int(pos-refPos),
				}, true
			}
			return PileupElement{
				Record:    rec,
				QueryPos:  -1,
				IsDel:     co.Type() == sam.CigarDeletion,
				IsRefSkip: co.Type() == sam.CigarSkipped,
			}, true
		}

		if con.Reference == 1 {
			refPos += n
		}
		if con.Query == 1 {
			queryPos += int(n)
		}
	}
	return PileupElement{}, false
}

// FromPileupElement extracts a LocusRead from a pileup element. Splice
// gaps and deletions spanning the column carry no base to anchor, so they
// are rejected before the alignment-level filters run.
func (e *Extractor) FromPileupElement(elem PileupElement, base0PosBeforeVariant, base0PosAfterVariant int64) *LocusRead {
	if elem.IsRefSkip {
		e.logger.Debug("skipping read spliced across locus",
			zap.String("read", elem.Record.Name))
		return nil
	}
	if elem.IsDel {
		e.logger.Debug("skipping read with deletion at locus",
			zap.String("read", elem.Record.Name))
		return nil
	}
	return e.FromAlignment(elem.Record, base0PosBeforeVariant, base0PosAfterVariant)
}
