package reads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biogo/hts/sam"
)

func TestColumnAt(t *testing.T) {
	match := testRecord("match", 100, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 10),
	}, "AAAAAAAAAA")
	deleted := testRecord("deleted", 100, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarDeletion, 4),
		sam.NewCigarOp(sam.CigarMatch, 7),
	}, "AAAAAAAAAA")
	spliced := testRecord("spliced", 100, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarSkipped, 4),
		sam.NewCigarOp(sam.CigarMatch, 7),
	}, "AAAAAAAAAA")
	downstream := testRecord("downstream", 200, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 10),
	}, "AAAAAAAAAA")
	unmapped := testRecord("unmapped", 100, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 10),
	}, "AAAAAAAAAA")
	unmapped.Flags |= sam.Unmapped

	records := []*sam.Record{match, deleted, spliced, downstream, unmapped}

	t.Run("aligned column", func(t *testing.T) {
		col := ColumnAt(records, 105)
		require.Len(t, col.Elements, 3)
		assert.Equal(t, int64(105), col.Pos)

		assert.Equal(t, "match", col.Elements[0].Record.Name)
		assert.Equal(t, 5, col.Elements[0].QueryPos)
		assert.False(t, col.Elements[0].IsDel)

		assert.Equal(t, "deleted", col.Elements[1].Record.Name)
		assert.Equal(t, -1, col.Elements[1].QueryPos)
		assert.True(t, col.Elements[1].IsDel)

		assert.Equal(t, "spliced", col.Elements[2].Record.Name)
		assert.Equal(t, -1, col.Elements[2].QueryPos)
		assert.True(t, col.Elements[2].IsRefSkip)
	})

	t.Run("column after gap", func(t *testing.T) {
		// Base 107 is the first aligned base after the 4-base deletion:
		// query index 3 for the deleted read, 7 for the plain match.
		col := ColumnAt(records, 107)
		require.Len(t, col.Elements, 3)
		assert.Equal(t, 7, col.Elements[0].QueryPos)
		assert.Equal(t, 3, col.Elements[1].QueryPos)
		assert.Equal(t, 3, col.Elements[2].QueryPos)
	})

	t.Run("uncovered column", func(t *testing.T) {
		col := ColumnAt(records, 150)
		assert.Empty(t, col.Elements)
	})
}

func TestFromPileupElement(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	t.Run("splice gap rejected", func(t *testing.T) {
		elem := PileupElement{Record: twentyM("r1", 'A'), QueryPos: -1, IsRefSkip: true}
		assert.Nil(t, e.FromPileupElement(elem, g12cBase0Before, g12cBase0After))
	})

	t.Run("deletion rejected", func(t *testing.T) {
		elem := PileupElement{Record: twentyM("r1", 'A'), QueryPos: -1, IsDel: true}
		assert.Nil(t, e.FromPileupElement(elem, g12cBase0Before, g12cBase0After))
	})

	t.Run("aligned element delegates", func(t *testing.T) {
		elem := PileupElement{Record: twentyM("r1", 'A'), QueryPos: 9}
		lr := e.FromPileupElement(elem, g12cBase0Before, g12cBase0After)
		require.NotNil(t, lr)
		assert.Equal(t, "r1", lr.Name)
	})

	t.Run("alignment filters still apply", func(t *testing.T) {
		rec := twentyM("r1", 'A')
		rec.MapQ = 0
		elem := PileupElement{Record: rec, QueryPos: 9}
		assert.Nil(t, e.FromPileupElement(elem, g12cBase0Before, g12cBase0After))
	})
}
