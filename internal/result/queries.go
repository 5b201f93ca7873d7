package result

import (
	"sort"

	"github.com/openvax/isovar-go/internal/genome"
)

// variantSpan is the inclusive base-1 range the trimmed variant touches.
// An insertion touches the two bases flanking the insertion point.
func (r *Result) variantSpan() (int64, int64) {
	tv := r.Variant.Trimmed()
	if len(tv.Ref) == 0 {
		return tv.Pos, tv.Pos + 1
	}
	return tv.Pos, tv.Pos + int64(len(tv.Ref)) - 1
}

// OverlappingTranscripts returns the transcripts whose span contains the
// variant, optionally restricted to protein-coding ones.
func (r *Result) OverlappingTranscripts(onlyCoding bool) []*genome.Transcript {
	if r.GenomeIndex == nil || r.Variant == nil {
		return nil
	}
	start, end := r.variantSpan()
	txs := r.GenomeIndex.TranscriptsOverlapping(r.Variant.Chrom, start, end)
	if !onlyCoding {
		return txs
	}
	var out []*genome.Transcript
	for _, t := range txs {
		if t.IsProteinCoding() {
			out = append(out, t)
		}
	}
	return out
}

// OverlappingTranscriptIDs returns the sorted IDs of overlapping
// transcripts.
func (r *Result) OverlappingTranscriptIDs(onlyCoding bool) []string {
	var ids []string
	for _, t := range r.OverlappingTranscripts(onlyCoding) {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}

// OverlappingGenes returns the genes whose span contains the variant,
// optionally restricted to protein-coding ones.
func (r *Result) OverlappingGenes(onlyCoding bool) []*genome.Gene {
	if r.GenomeIndex == nil || r.Variant == nil {
		return nil
	}
	start, end := r.variantSpan()
	genes := r.GenomeIndex.GenesOverlapping(r.Variant.Chrom, start, end)
	if !onlyCoding {
		return genes
	}
	var out []*genome.Gene
	for _, g := range genes {
		if g.IsProteinCoding() {
			out = append(out, g)
		}
	}
	return out
}

// OverlappingGeneIDs returns the sorted IDs of overlapping genes.
func (r *Result) OverlappingGeneIDs(onlyCoding bool) []string {
	var ids []string
	for _, g := range r.OverlappingGenes(onlyCoding) {
		ids = append(ids, g.ID)
	}
	sort.Strings(ids)
	return ids
}

// OverlappingGeneNames returns the sorted, deduplicated symbols of
// overlapping genes.
func (r *Result) OverlappingGeneNames(onlyCoding bool) []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range r.OverlappingGenes(onlyCoding) {
		if g.Name != "" && !seen[g.Name] {
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}
	sort.Strings(names)
	return names
}

// TranscriptsFromProteinSequences resolves the union of supporting
// transcript IDs across the top-ranked protein sequences. A non-positive
// limit considers every sequence. IDs absent from the genome index are
// skipped; the result is deduplicated and sorted by ID.
func (r *Result) TranscriptsFromProteinSequences(limit int) []*genome.Transcript {
	if r.GenomeIndex == nil {
		return nil
	}
	seqs := r.SortedProteinSequences
	if limit > 0 && limit < len(seqs) {
		seqs = seqs[:limit]
	}

	seen := make(map[string]bool)
	var out []*genome.Transcript
	for _, ps := range seqs {
		for _, id := range ps.TranscriptIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if t := r.GenomeIndex.TranscriptByID(id); t != nil {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GenesFromProteinSequences resolves the genes of the supporting
// transcripts of the top-ranked protein sequences, deduplicated and
// sorted by ID.
func (r *Result) GenesFromProteinSequences(limit int) []*genome.Gene {
	seen := make(map[string]bool)
	var out []*genome.Gene
	for _, t := range r.TranscriptsFromProteinSequences(limit) {
		g := r.GenomeIndex.GeneForTranscript(t)
		if g == nil || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
