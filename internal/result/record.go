package result

import (
	"strings"

	"github.com/openvax/isovar-go/internal/report"
)

var predictedEffectKeys = []string{
	"predicted_effect_gene_name",
	"predicted_effect_gene_id",
	"predicted_effect_transcript_id",
	"predicted_effect_transcript_name",
	"predicted_effect_modifies_protein_sequence",
	"predicted_effect_original_protein_sequence",
	"predicted_effect_aa_mutation_start_offset",
	"predicted_effect_aa_mutation_end_offset",
	"predicted_effect_mutant_protein_sequence",
}

var proteinSequenceKeys = []string{
	"protein_sequence",
	"protein_sequence_mutation_start",
	"protein_sequence_mutation_end",
	"protein_sequence_ends_with_stop_codon",
	"protein_sequence_mismatches",
	"protein_sequence_mismatches_before_variant",
	"protein_sequence_mismatches_after_variant",
	"protein_sequence_num_supporting_reads",
	"protein_sequence_num_supporting_fragments",
}

// ToRecord flattens the result into an ordered record: variant identity,
// every registry statistic alphabetically, the predicted effect block,
// one filter:<name> entry per filter, the overall pass flag, and the top
// protein sequence block. Missing optional data becomes a nil value, so
// every record carries the same schema.
func (r *Result) ToRecord() *report.Record {
	rec := report.NewRecord()

	if r.Variant != nil {
		rec.Set("variant", r.Variant.ShortDescription())
	} else {
		rec.Set("variant", nil)
	}
	rec.Set("variant_gene", strings.Join(r.OverlappingGeneNames(false), ";"))

	for _, name := range StatNames() {
		value, _ := r.Stat(name)
		rec.Set(name, value)
	}

	if eff := r.PredictedEffect; eff != nil {
		rec.Set("predicted_effect", eff.ShortDescription())
		rec.Set("predicted_effect_class", eff.Class)
		rec.Set("predicted_effect_gene_name", nilIfEmpty(eff.GeneName))
		rec.Set("predicted_effect_gene_id", nilIfEmpty(eff.GeneID))
		rec.Set("predicted_effect_transcript_id", nilIfEmpty(eff.TranscriptID))
		rec.Set("predicted_effect_transcript_name", nilIfEmpty(eff.TranscriptName))
		rec.Set("predicted_effect_modifies_protein_sequence", eff.ModifiesProteinSequence())
		rec.Set("predicted_effect_original_protein_sequence", nilIfEmpty(eff.OriginalProteinSequence))
		rec.Set("predicted_effect_aa_mutation_start_offset", offsetValue(eff.AAMutationStartOffset))
		rec.Set("predicted_effect_aa_mutation_end_offset", offsetValue(eff.AAMutationEndOffset))
		rec.Set("predicted_effect_mutant_protein_sequence", nilIfEmpty(eff.MutantProteinSequence))
	} else {
		rec.Set("predicted_effect", nil)
		rec.Set("predicted_effect_class", nil)
		for _, key := range predictedEffectKeys {
			rec.Set(key, nil)
		}
	}

	if r.FilterValues != nil {
		for _, name := range r.FilterValues.Names() {
			pass, _ := r.FilterValues.Get(name)
			rec.Set("filter:"+name, pass)
		}
	}
	rec.Set("pass", r.PassesAllFilters())

	if top := r.TopProteinSequence(); top != nil {
		rec.Set("protein_sequence", top.AminoAcids)
		rec.Set("protein_sequence_mutation_start", top.MutationStart)
		rec.Set("protein_sequence_mutation_end", top.MutationEnd)
		rec.Set("protein_sequence_ends_with_stop_codon", top.EndsWithStopCodon)
		rec.Set("protein_sequence_mismatches", top.Mismatches())
		rec.Set("protein_sequence_mismatches_before_variant", top.MismatchesBeforeVariant)
		rec.Set("protein_sequence_mismatches_after_variant", top.MismatchesAfterVariant)
		rec.Set("protein_sequence_num_supporting_reads", top.NumSupportingReads)
		rec.Set("protein_sequence_num_supporting_fragments", top.NumSupportingFragments)
	} else {
		for _, key := range proteinSequenceKeys {
			rec.Set(key, nil)
		}
	}
	return rec
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func offsetValue(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
