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

package pageindex_test

import (
	"math"
	"testing"

	"github.com/columnify/pageindex-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupRows = 593

// newTestRowGroup models a row group of 593 rows with a sorted int64
// column "_long" (value == row position, 11 pages of 57 rows) and an
// unsorted string column "_string".
func newTestRowGroup(t *testing.T) *pageindex.RowGroupIndex {
	t.Helper()

	var (
		longStats []pageindex.PageStats
		longLocs  []pageindex.PageLocation
	)
	for first := int64(0); first < groupRows; first += 57 {
		last := first + 56
		if last >= groupRows {
			last = groupRows - 1
		}
		longStats = append(longStats, pageindex.PageStats{
			Min: pageindex.Int64Literal(first),
			Max: pageindex.Int64Literal(last),
		})
		longLocs = append(longLocs, pageindex.PageLocation{FirstRowIndex: first})
	}
	longIdx, err := pageindex.NewColumnPageIndex(pageindex.Ascending, longStats, longLocs)
	require.NoError(t, err)

	// the middle string page starts with a blank value, so its min is the
	// empty string rather than an absent bound
	strStats := []pageindex.PageStats{
		{Min: pageindex.StringLiteral("Bd"), Max: pageindex.StringLiteral("ty")},
		{Min: pageindex.StringLiteral(""), Max: pageindex.StringLiteral("zzBYX?HiWMlMn")},
		{Min: pageindex.StringLiteral("Ac"), Max: pageindex.StringLiteral("xk")},
	}
	strLocs := []pageindex.PageLocation{
		{FirstRowIndex: 0}, {FirstRowIndex: 200}, {FirstRowIndex: 400},
	}
	strIdx, err := pageindex.NewColumnPageIndex(pageindex.Unordered, strStats, strLocs)
	require.NoError(t, err)

	rg, err := pageindex.NewRowGroupIndex(groupRows, map[string]*pageindex.ColumnPageIndex{
		"_long":   longIdx,
		"_string": strIdx,
		"_bare":   nil, // exists, but no page index was written
	})
	require.NoError(t, err)

	return rg
}

func TestResolveSinglePage(t *testing.T) {
	rg := newTestRowGroup(t)

	expr := pageindex.NewAnd(
		pageindex.GreaterThanEqual[int64]("_long", 57),
		pageindex.LessThan[int64]("_long", 114))

	out, err := pageindex.ResolveRowGroup(rg, expr)
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(57, 114), out.Ranges)
}

func TestResolveDisjunctionMultiRange(t *testing.T) {
	rg := newTestRowGroup(t)

	// the second branch's literals sit mid-page; the resolved ranges round
	// out to the page boundaries
	expr := pageindex.NewOr(
		pageindex.NewAnd(
			pageindex.GreaterThanEqual[int64]("_long", 57),
			pageindex.LessThan[int64]("_long", 114)),
		pageindex.NewAnd(
			pageindex.GreaterThanEqual[int64]("_long", 173),
			pageindex.LessThan[int64]("_long", 260)))

	out, err := pageindex.ResolveRowGroup(rg, expr)
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(57, 114, 171, 285), out.Ranges)
}

func TestResolveInPrecise(t *testing.T) {
	rg := newTestRowGroup(t)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.IsIn[int64]("_long", 80, 100, 180, 200))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	// pages 1 and 3; the envelope [80, 200] would also fetch page 2
	assert.Equal(t, rr(57, 114, 171, 228), out.Ranges)
}

func TestResolveUnorderedEqual(t *testing.T) {
	rg := newTestRowGroup(t)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo("_string", "zz"))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(200, 400), out.Ranges)

	// the empty-string min on that same page is a real bound: it keeps the
	// page a candidate below every other page's min without degrading the
	// scan to a full read
	out, err = pageindex.ResolveRowGroup(rg, pageindex.LessThan("_string", "Ab"))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(200, 400), out.Ranges)
}

func TestResolveImpossibleConjunction(t *testing.T) {
	rg := newTestRowGroup(t)

	// the right branch can't match anywhere, the whole group is skipped
	expr := pageindex.NewAnd(
		pageindex.NewAnd(
			pageindex.GreaterThan[int64]("_long", 40),
			pageindex.LessThan[int64]("_long", 46)),
		pageindex.EqualTo[int64]("_long", 100000))

	out, err := pageindex.ResolveRowGroup(rg, expr)
	require.NoError(t, err)
	assert.Equal(t, pageindex.SkipEntireRowGroup, out.Kind)
	assert.Empty(t, out.Ranges)
}

func TestResolveAlwaysFalse(t *testing.T) {
	rg := newTestRowGroup(t)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.AlwaysFalse{})
	require.NoError(t, err)
	assert.Equal(t, pageindex.SkipEntireRowGroup, out.Kind)

	// an empty IN folds to AlwaysFalse before resolution starts
	out, err = pageindex.ResolveRowGroup(rg, pageindex.IsIn[int64]("_long"))
	require.NoError(t, err)
	assert.Equal(t, pageindex.SkipEntireRowGroup, out.Kind)
}

func TestResolveFullCoverage(t *testing.T) {
	rg := newTestRowGroup(t)

	out, err := pageindex.ResolveRowGroup(rg,
		pageindex.GreaterThanEqual[int64]("_long", math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)
	assert.Empty(t, out.Ranges)

	out, err = pageindex.ResolveRowGroup(rg, pageindex.AlwaysTrue{})
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)
}

func TestResolveMissingStatsFailOpen(t *testing.T) {
	rg := newTestRowGroup(t)

	// "_bare" has no page index: alone it reads everything
	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo[int64]("_bare", 5))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)

	// under AND, the indexed column still narrows the result
	out, err = pageindex.ResolveRowGroup(rg, pageindex.NewAnd(
		pageindex.EqualTo[int64]("_bare", 5),
		pageindex.NewAnd(
			pageindex.GreaterThanEqual[int64]("_long", 57),
			pageindex.LessThan[int64]("_long", 114))))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(57, 114), out.Ranges)

	// under OR, the missing stats win and the group reads whole
	out, err = pageindex.ResolveRowGroup(rg, pageindex.NewOr(
		pageindex.EqualTo[int64]("_bare", 5),
		pageindex.EqualTo[int64]("_long", 60)))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)
}

func TestResolveNegation(t *testing.T) {
	rg := newTestRowGroup(t)

	// NOT rewrites to NotEqual; page stats can't exclude multi-valued
	// pages, so everything stays readable rather than under-reading
	out, err := pageindex.ResolveRowGroup(rg,
		pageindex.NewNot(pageindex.EqualTo[int64]("_long", 60)))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)

	// NOT over a range predicate flips into the complementary bound and
	// prunes precisely
	out, err = pageindex.ResolveRowGroup(rg,
		pageindex.NewNot(pageindex.LessThan[int64]("_long", 570)))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
	assert.Equal(t, rr(570, 593), out.Ranges)
}

func TestPageIndexClassifiesAbsence(t *testing.T) {
	rg := newTestRowGroup(t)

	idx, err := rg.PageIndex("_long")
	require.NoError(t, err)
	require.NotNil(t, idx)

	// a column with no written page index is distinguishable from a
	// column that does not exist; neither error escapes resolution
	_, err = rg.PageIndex("_bare")
	assert.ErrorIs(t, err, pageindex.ErrStatsUnavailable)
	_, err = rg.PageIndex("no_such")
	assert.ErrorIs(t, err, pageindex.ErrUnknownColumn)

	out, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo[int64]("_bare", 5))
	require.NoError(t, err)
	assert.Equal(t, pageindex.ReadEntireRowGroup, out.Kind)
}

func TestResolveUnknownColumn(t *testing.T) {
	rg := newTestRowGroup(t)

	_, err := pageindex.ResolveRowGroup(rg, pageindex.EqualTo[int64]("no_such", 1))
	assert.ErrorIs(t, err, pageindex.ErrUnknownColumn)

	// reported even when buried in a tree whose other side matches
	_, err = pageindex.ResolveRowGroup(rg, pageindex.NewOr(
		pageindex.EqualTo[int64]("_long", 60),
		pageindex.EqualTo[int64]("no_such", 1)))
	assert.ErrorIs(t, err, pageindex.ErrUnknownColumn)
}

func TestResolveIdempotent(t *testing.T) {
	rg := newTestRowGroup(t)
	expr := pageindex.NewOr(
		pageindex.EqualTo[int64]("_long", 60),
		pageindex.EqualTo[int64]("_long", 200))

	first, err := pageindex.ResolveRowGroup(rg, expr)
	require.NoError(t, err)
	second, err := pageindex.ResolveRowGroup(rg, expr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Ranges, pageindex.MergeRowRanges(first.Ranges))
}

func TestPagesForRanges(t *testing.T) {
	rg := newTestRowGroup(t)
	idx, ok := rg.ColumnIndex("_long")
	require.True(t, ok)
	require.NotNil(t, idx)

	pages := idx.PagesForRanges(rr(57, 114, 171, 285), groupRows)
	require.Len(t, pages, 3)
	assert.Equal(t, int64(57), pages[0].FirstRowIndex)
	assert.Equal(t, int64(171), pages[1].FirstRowIndex)
	assert.Equal(t, int64(228), pages[2].FirstRowIndex)
}

type staticCatalog []*pageindex.RowGroupIndex

func (c staticCatalog) NumRowGroups() int { return len(c) }
func (c staticCatalog) RowGroup(i int) (*pageindex.RowGroupIndex, error) {
	return c[i], nil
}

func TestResolveAll(t *testing.T) {
	cat := staticCatalog{newTestRowGroup(t), newTestRowGroup(t)}

	var outcomes []pageindex.RowRangeOutcome
	for out, err := range pageindex.ResolveAll(cat, pageindex.EqualTo[int64]("_long", 60)) {
		require.NoError(t, err)
		outcomes = append(outcomes, out)
	}

	require.Len(t, outcomes, 2)
	for _, out := range outcomes {
		assert.Equal(t, pageindex.ReadRowRanges, out.Kind)
		assert.Equal(t, rr(57, 114), out.Ranges)
	}
}
