// Package genome provides the gene/transcript annotation index.
package genome

import "sort"

// Index provides access to gene and transcript annotations for a genome
// assembly. Queries run against per-chromosome interval trees built by
// Build; before Build (or after further Add calls) they fall back to a
// linear scan, which keeps small test indexes simple.
type Index struct {
	// transcripts and genes are indexed by normalized chromosome name
	transcripts map[string][]*Transcript
	genes       map[string][]*Gene

	transcriptByID map[string]*Transcript
	geneByID       map[string]*Gene

	transcriptTrees map[string]*IntervalTree[*Transcript]
	geneTrees       map[string]*IntervalTree[*Gene]
}

// NewIndex creates a new empty index.
func NewIndex() *Index {
	return &Index{
		transcripts:    make(map[string][]*Transcript),
		genes:          make(map[string][]*Gene),
		transcriptByID: make(map[string]*Transcript),
		geneByID:       make(map[string]*Gene),
	}
}

// AddTranscript adds a transcript to the index.
func (ix *Index) AddTranscript(t *Transcript) {
	chrom := NormalizeChrom(t.Chrom)
	ix.transcripts[chrom] = append(ix.transcripts[chrom], t)
	ix.transcriptByID[t.ID] = t
	ix.transcriptTrees = nil
}

// AddGene adds a gene to the index.
func (ix *Index) AddGene(g *Gene) {
	chrom := NormalizeChrom(g.Chrom)
	ix.genes[chrom] = append(ix.genes[chrom], g)
	ix.geneByID[g.ID] = g
	ix.geneTrees = nil
}

// Build constructs the per-chromosome interval trees. Call once after
// loading; queries on an unbuilt index scan linearly.
func (ix *Index) Build() {
	ix.transcriptTrees = make(map[string]*IntervalTree[*Transcript], len(ix.transcripts))
	for chrom, ts := range ix.transcripts {
		ix.transcriptTrees[chrom] = BuildIntervalTree(ts)
	}
	ix.geneTrees = make(map[string]*IntervalTree[*Gene], len(ix.genes))
	for chrom, gs := range ix.genes {
		ix.geneTrees[chrom] = BuildIntervalTree(gs)
	}
}

// TranscriptsOverlapping returns all transcripts intersecting the interval
// [start, end] (1-based, inclusive) on the given chromosome.
func (ix *Index) TranscriptsOverlapping(chrom string, start, end int64) []*Transcript {
	chrom = NormalizeChrom(chrom)
	if ix.transcriptTrees != nil {
		if tree, ok := ix.transcriptTrees[chrom]; ok {
			return tree.Overlapping(start, end)
		}
		return nil
	}
	var result []*Transcript
	for _, t := range ix.transcripts[chrom] {
		if t.Start <= end && t.End >= start {
			result = append(result, t)
		}
	}
	return result
}

// GenesOverlapping returns all genes intersecting the interval [start, end]
// (1-based, inclusive) on the given chromosome.
func (ix *Index) GenesOverlapping(chrom string, start, end int64) []*Gene {
	chrom = NormalizeChrom(chrom)
	if ix.geneTrees != nil {
		if tree, ok := ix.geneTrees[chrom]; ok {
			return tree.Overlapping(start, end)
		}
		return nil
	}
	var result []*Gene
	for _, g := range ix.genes[chrom] {
		if g.Start <= end && g.End >= start {
			result = append(result, g)
		}
	}
	return result
}

// GeneNamesOverlapping returns the sorted, deduplicated names of genes
// intersecting the interval.
func (ix *Index) GeneNamesOverlapping(chrom string, start, end int64) []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range ix.GenesOverlapping(chrom, start, end) {
		if g.Name != "" && !seen[g.Name] {
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}
	sort.Strings(names)
	return names
}

// TranscriptByID returns a specific transcript by ID, or nil if not found.
func (ix *Index) TranscriptByID(id string) *Transcript {
	return ix.transcriptByID[id]
}

// GeneByID returns a specific gene by ID, or nil if not found.
func (ix *Index) GeneByID(id string) *Gene {
	return ix.geneByID[id]
}

// GeneForTranscript resolves the gene a transcript belongs to, or nil.
func (ix *Index) GeneForTranscript(t *Transcript) *Gene {
	if t == nil {
		return nil
	}
	return ix.geneByID[t.GeneID]
}

// TranscriptsByChrom returns all transcripts for a chromosome.
func (ix *Index) TranscriptsByChrom(chrom string) []*Transcript {
	return ix.transcripts[NormalizeChrom(chrom)]
}

// GenesByChrom returns all genes for a chromosome.
func (ix *Index) GenesByChrom(chrom string) []*Gene {
	return ix.genes[NormalizeChrom(chrom)]
}

// TranscriptCount returns the total number of transcripts in the index.
func (ix *Index) TranscriptCount() int {
	count := 0
	for _, ts := range ix.transcripts {
		count += len(ts)
	}
	return count
}

// GeneCount returns the total number of genes in the index.
func (ix *Index) GeneCount() int {
	count := 0
	for _, gs := range ix.genes {
		count += len(gs)
	}
	return count
}

// Chromosomes returns a sorted list of chromosomes in the index.
func (ix *Index) Chromosomes() []string {
	seen := make(map[string]bool, len(ix.transcripts))
	chroms := make([]string, 0, len(ix.transcripts))
	for chrom := range ix.transcripts {
		if !seen[chrom] {
			seen[chrom] = true
			chroms = append(chroms, chrom)
		}
	}
	for chrom := range ix.genes {
		if !seen[chrom] {
			seen[chrom] = true
			chroms = append(chroms, chrom)
		}
	}
	sort.Strings(chroms)
	return chroms
}
