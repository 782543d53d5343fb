package pageindex

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// FileCatalog implements CatalogReader on top of a parquet file, decoding
// the column index and offset index of each row group on demand.
type FileCatalog struct {
	f *parquet.File
}

func OpenFileCatalog(r io.ReaderAt, size int64) (*FileCatalog, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMetadata, err.Error())
	}

	return NewFileCatalog(f), nil
}

func NewFileCatalog(f *parquet.File) *FileCatalog {
	return &FileCatalog{f: f}
}

func (c *FileCatalog) NumRowGroups() int { return len(c.f.RowGroups()) }

func (c *FileCatalog) RowGroup(i int) (*RowGroupIndex, error) {
	groups := c.f.RowGroups()
	if i < 0 || i >= len(groups) {
		return nil, fmt.Errorf("%w: row group %d of %d", ErrInvalidArgument, i, len(groups))
	}

	rg := groups[i]
	schema := rg.Schema()
	columns := make(map[string]*ColumnPageIndex)
	for _, path := range schema.Columns() {
		leaf, ok := schema.Lookup(path...)
		if !ok {
			continue
		}

		name := strings.Join(path, ".")
		chunk := rg.ColumnChunks()[leaf.ColumnIndex]
		cidx, cerr := chunk.ColumnIndex()
		oidx, oerr := chunk.OffsetIndex()
		if cerr != nil || oerr != nil || cidx == nil || oidx == nil {
			// the writer did not produce a page index for this chunk
			columns[name] = nil

			continue
		}

		idx, err := columnPageIndex(cidx, oidx)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		columns[name] = idx
	}

	return NewRowGroupIndex(rg.NumRows(), columns)
}

func columnPageIndex(cidx parquet.ColumnIndex, oidx parquet.OffsetIndex) (*ColumnPageIndex, error) {
	if cidx.NumPages() != oidx.NumPages() {
		return nil, fmt.Errorf("%w: %d column index pages, %d offset index pages",
			ErrInconsistentLayout, cidx.NumPages(), oidx.NumPages())
	}

	order := Unordered
	switch {
	case cidx.IsAscending():
		order = Ascending
	case cidx.IsDescending():
		order = Descending
	}

	n := cidx.NumPages()
	stats := make([]PageStats, n)
	locations := make([]PageLocation, n)
	for p := 0; p < n; p++ {
		s := PageStats{NullCount: cidx.NullCount(p)}
		if !cidx.NullPage(p) {
			s.Min = literalFromValue(cidx.MinValue(p))
			s.Max = literalFromValue(cidx.MaxValue(p))
		}
		stats[p] = s
		locations[p] = PageLocation{
			Offset:         oidx.Offset(p),
			CompressedSize: oidx.CompressedPageSize(p),
			FirstRowIndex:  oidx.FirstRowIndex(p),
		}
	}

	return NewColumnPageIndex(order, stats, locations)
}

// literalFromValue converts a page statistics value into a literal, or nil
// for a null value.
func literalFromValue(v parquet.Value) Literal {
	if v.IsNull() {
		return nil
	}

	switch v.Kind() {
	case parquet.Boolean:
		return BoolLiteral(v.Boolean())
	case parquet.Int32:
		return Int32Literal(v.Int32())
	case parquet.Int64:
		return Int64Literal(v.Int64())
	case parquet.Float:
		return Float32Literal(v.Float())
	case parquet.Double:
		return Float64Literal(v.Double())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return BinaryLiteral(slices.Clone(v.ByteArray()))
	}

	return nil
}
