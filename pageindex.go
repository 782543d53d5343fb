// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package pageindex resolves predicates against columnar page statistics,
// producing the minimal row ranges of each row group a reader has to
// fetch. Resolution is conservative: a returned range set is always a
// superset of the rows that actually match, and absent statistics widen
// the result rather than failing.
package pageindex

import (
	"fmt"
)

// BoundaryOrder describes how the non-null page min/max values of a column
// chunk are ordered relative to each other.
type BoundaryOrder int

const (
	Unordered BoundaryOrder = iota
	Ascending
	Descending
)

func (b BoundaryOrder) String() string {
	switch b {
	case Unordered:
		return "UNORDERED"
	case Ascending:
		return "ASCENDING"
	case Descending:
		return "DESCENDING"
	}

	return "BoundaryOrder(" + fmt.Sprint(int(b)) + ")"
}

// PageStats holds the statistics of a single data page. Min and Max are nil
// when the page stores no values (an all-null page) or when the writer did
// not record bounds; the two cases are told apart by NullCount relative to
// the page's row count.
type PageStats struct {
	NullCount int64
	Min, Max  Literal
}

// PageLocation locates a single data page within the file and within the
// row group's rows.
type PageLocation struct {
	Offset         int64
	CompressedSize int64
	FirstRowIndex  int64
}

// ColumnPageIndex is the decoded column index and offset index of one
// column chunk: per-page statistics, per-page locations, and the boundary
// order of the page bounds.
type ColumnPageIndex struct {
	order     BoundaryOrder
	stats     []PageStats
	locations []PageLocation
}

// NewColumnPageIndex validates and assembles a column page index. The
// column index and offset index must agree on the page count, and the
// first-row indices must start at zero and strictly increase.
func NewColumnPageIndex(order BoundaryOrder, stats []PageStats, locations []PageLocation) (*ColumnPageIndex, error) {
	if len(stats) != len(locations) {
		return nil, fmt.Errorf("%w: %d column index entries, %d offset index entries",
			ErrInconsistentLayout, len(stats), len(locations))
	}

	for i, loc := range locations {
		switch {
		case i == 0 && loc.FirstRowIndex != 0:
			return nil, fmt.Errorf("%w: first page starts at row %d, expected 0",
				ErrMalformedMetadata, loc.FirstRowIndex)
		case i > 0 && loc.FirstRowIndex <= locations[i-1].FirstRowIndex:
			return nil, fmt.Errorf("%w: page %d starts at row %d, page %d starts at row %d",
				ErrMalformedMetadata, i-1, locations[i-1].FirstRowIndex, i, loc.FirstRowIndex)
		}
	}

	return &ColumnPageIndex{order: order, stats: stats, locations: locations}, nil
}

func (c *ColumnPageIndex) NumPages() int               { return len(c.stats) }
func (c *ColumnPageIndex) Order() BoundaryOrder        { return c.order }
func (c *ColumnPageIndex) Stats(i int) PageStats       { return c.stats[i] }
func (c *ColumnPageIndex) Location(i int) PageLocation { return c.locations[i] }

// rowRange returns the half-open row interval covered by page i. The last
// page extends to the row group's row count.
func (c *ColumnPageIndex) rowRange(i int, groupRows int64) RowRange {
	start := c.locations[i].FirstRowIndex
	if i+1 < len(c.locations) {
		return RowRange{Start: start, End: c.locations[i+1].FirstRowIndex}
	}

	return RowRange{Start: start, End: groupRows}
}

// pageRows returns the number of rows stored in page i.
func (c *ColumnPageIndex) pageRows(i int, groupRows int64) int64 {
	r := c.rowRange(i, groupRows)

	return r.End - r.Start
}

// PagesForRanges returns the locations of the pages a reader must fetch to
// materialize the given row ranges, in page order. Both row-iterator and
// batch-oriented consumers reduce to this: the former seeks into the pages,
// the latter decodes them whole.
func (c *ColumnPageIndex) PagesForRanges(rr []RowRange, groupRows int64) []PageLocation {
	var out []PageLocation
	for i := range c.locations {
		pr := c.rowRange(i, groupRows)
		for _, r := range rr {
			if pr.Overlaps(r) {
				out = append(out, c.locations[i])

				break
			}
		}
	}

	return out
}

// RowGroupIndex holds the page indexes of a single row group, keyed by the
// dotted path of each leaf column. A nil entry means the column exists but
// its page statistics were not written; resolution fails open for it.
type RowGroupIndex struct {
	numRows int64
	columns map[string]*ColumnPageIndex
}

func NewRowGroupIndex(numRows int64, columns map[string]*ColumnPageIndex) (*RowGroupIndex, error) {
	if numRows < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrInvalidArgument, numRows)
	}

	for name, idx := range columns {
		if idx == nil {
			continue
		}
		if n := idx.NumPages(); n > 0 {
			if first := idx.locations[n-1].FirstRowIndex; first >= numRows {
				return nil, fmt.Errorf("%w: column %s last page starts at row %d of %d",
					ErrMalformedMetadata, name, first, numRows)
			}
		}
	}

	return &RowGroupIndex{numRows: numRows, columns: columns}, nil
}

func (r *RowGroupIndex) NumRows() int64 { return r.numRows }

// ColumnIndex returns the page index for the named column. The second
// return distinguishes a column with no page index (nil, true) from a
// column that does not exist at all (nil, false).
func (r *RowGroupIndex) ColumnIndex(name string) (*ColumnPageIndex, bool) {
	idx, ok := r.columns[name]

	return idx, ok
}

// PageIndex returns the page index for the named column, classifying the
// two failure modes: ErrUnknownColumn when the row group has no such
// column, ErrStatsUnavailable when the column exists but no page index
// was written for it.
func (r *RowGroupIndex) PageIndex(name string) (*ColumnPageIndex, error) {
	idx, ok := r.columns[name]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	case idx == nil:
		return nil, fmt.Errorf("%w: column %s", ErrStatsUnavailable, name)
	}

	return idx, nil
}

// CatalogReader provides decoded row group page indexes, one row group at
// a time. Implementations should decode lazily; resolution is pull-driven
// and never touches a row group the caller didn't ask for.
type CatalogReader interface {
	NumRowGroups() int
	RowGroup(i int) (*RowGroupIndex, error)
}
