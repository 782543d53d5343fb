package pageindex_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/columnify/pageindex-go"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexedRow struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
}

const fileRows = 2000

// writeIndexedFile produces a small parquet file with a sorted id column
// split over many pages, and opens a catalog over it.
func writeIndexedFile(t *testing.T) *pageindex.FileCatalog {
	t.Helper()

	buf := new(bytes.Buffer)
	w := parquet.NewGenericWriter[indexedRow](buf, parquet.PageBufferSize(512))

	recs := make([]indexedRow, fileRows)
	for i := range recs {
		recs[i] = indexedRow{ID: int64(i), Name: fmt.Sprintf("name-%05d", i)}
	}
	_, err := w.Write(recs)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	cat, err := pageindex.OpenFileCatalog(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	return cat
}

func covers(rr []pageindex.RowRange, row int64) bool {
	for _, r := range rr {
		if row >= r.Start && row < r.End {
			return true
		}
	}

	return false
}

func outcomeCovers(out pageindex.RowRangeOutcome, row int64) bool {
	switch out.Kind {
	case pageindex.ReadEntireRowGroup:
		return true
	case pageindex.ReadRowRanges:
		return covers(out.Ranges, row)
	}

	return false
}

func TestFileCatalogDecode(t *testing.T) {
	cat := writeIndexedFile(t)
	require.Equal(t, 1, cat.NumRowGroups())

	rg, err := cat.RowGroup(0)
	require.NoError(t, err)
	assert.Equal(t, int64(fileRows), rg.NumRows())

	idx, ok := rg.ColumnIndex("id")
	require.True(t, ok)
	require.NotNil(t, idx)
	assert.Greater(t, idx.NumPages(), 1)

	// first page starts at row zero and bounds are populated
	assert.Equal(t, int64(0), idx.Location(0).FirstRowIndex)
	assert.NotNil(t, idx.Stats(0).Min)
	assert.NotNil(t, idx.Stats(0).Max)

	_, ok = rg.ColumnIndex("name")
	assert.True(t, ok)
	_, ok = rg.ColumnIndex("missing")
	assert.False(t, ok)

	_, err = cat.RowGroup(5)
	assert.ErrorIs(t, err, pageindex.ErrInvalidArgument)
}

func TestFileCatalogResolvePoint(t *testing.T) {
	cat := writeIndexedFile(t)
	rg, err := cat.RowGroup(0)
	require.NoError(t, err)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo[int64]("id", 1234))
	require.NoError(t, err)
	require.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.True(t, outcomeCovers(out, 1234))

	// a point lookup over many pages must prune most of the group
	var selected int64
	for _, r := range out.Ranges {
		selected += r.End - r.Start
	}
	assert.Less(t, selected, int64(fileRows))
}

func TestFileCatalogResolveOutOfBounds(t *testing.T) {
	cat := writeIndexedFile(t)
	rg, err := cat.RowGroup(0)
	require.NoError(t, err)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo[int64]("id", fileRows+100))
	require.NoError(t, err)
	assert.Equal(t, pageindex.SkipEntireRowGroup, out.Kind)
}

func TestFileCatalogNoFalseNegatives(t *testing.T) {
	cat := writeIndexedFile(t)

	expr := pageindex.NewAnd(
		pageindex.GreaterThanEqual[int64]("id", 1500),
		pageindex.LessThan[int64]("id", 1600))

	for out, err := range pageindex.ResolveAll(cat, expr) {
		require.NoError(t, err)
		for _, row := range []int64{1500, 1555, 1599} {
			assert.True(t, outcomeCovers(out, row), "row %d must stay readable", row)
		}
		assert.False(t, outcomeCovers(out, 0))
		assert.False(t, outcomeCovers(out, fileRows-1))
	}
}

func TestFileCatalogResolveString(t *testing.T) {
	cat := writeIndexedFile(t)
	rg, err := cat.RowGroup(0)
	require.NoError(t, err)

	// string predicates compare against the byte-array page bounds
	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo("name", "name-00042"))
	require.NoError(t, err)
	assert.True(t, outcomeCovers(out, 42))
}
