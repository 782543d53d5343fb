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

package pageindex

import (
	"fmt"
	"slices"
	"sort"
)

// statsMightMatch is the inclusive overlap test for a single page against a
// literal predicate. All-null pages never hold a matching value; a non-null
// page without recorded bounds might.
func statsMightMatch(op Operation, s PageStats, lit Literal, pageRows int64) bool {
	if pageRows > 0 && s.NullCount >= pageRows {
		return false
	}
	if s.Min == nil || s.Max == nil {
		return true
	}

	switch op {
	case OpLT:
		return compareLiterals(s.Min, lit) < 0
	case OpLTEQ:
		return compareLiterals(s.Min, lit) <= 0
	case OpGT:
		return compareLiterals(s.Max, lit) > 0
	case OpGTEQ:
		return compareLiterals(s.Max, lit) >= 0
	case OpEQ:
		return compareLiterals(s.Min, lit) <= 0 && compareLiterals(s.Max, lit) >= 0
	case OpNEQ:
		// only a single-valued page proves every row equal
		return compareLiterals(s.Min, lit) != 0 || compareLiterals(s.Max, lit) != 0
	}
	panic(fmt.Errorf("%w: page overlap test for operation %s", ErrNotImplemented, op))
}

// candidatePages returns the sorted page indexes that might contain a row
// matching the literal predicate. Ordered columns resolve with a binary
// search over the non-null pages; unordered columns scan every page.
func candidatePages(idx *ColumnPageIndex, op Operation, lit Literal, groupRows int64) []int {
	// NotEqual excludes at most the single-valued pages, which are not
	// contiguous in general. Always scan.
	if op != OpNEQ && idx.Order() != Unordered {
		if nonNull, ok := boundedPages(idx, groupRows); ok {
			return orderedScan(idx, nonNull, op, lit)
		}
	}

	return linearScan(idx, op, lit, groupRows)
}

// boundedPages returns the indexes of pages holding at least one value.
// ok is false when any such page lacks recorded bounds, in which case the
// boundary order cannot be trusted for searching.
func boundedPages(idx *ColumnPageIndex, groupRows int64) (pages []int, ok bool) {
	pages = make([]int, 0, idx.NumPages())
	for i := 0; i < idx.NumPages(); i++ {
		s := idx.Stats(i)
		if rows := idx.pageRows(i, groupRows); rows > 0 && s.NullCount >= rows {
			continue
		}
		if s.Min == nil || s.Max == nil {
			return nil, false
		}
		pages = append(pages, i)
	}

	return pages, true
}

func orderedScan(idx *ColumnPageIndex, pages []int, op Operation, lit Literal) []int {
	n := len(pages)
	cmpMin := func(i int) int { return compareLiterals(idx.Stats(pages[i]).Min, lit) }
	cmpMax := func(i int) int { return compareLiterals(idx.Stats(pages[i]).Max, lit) }

	var lo, hi int
	if idx.Order() == Ascending {
		// page mins and maxes are both non-decreasing
		switch op {
		case OpEQ:
			lo = sort.Search(n, func(i int) bool { return cmpMax(i) >= 0 })
			hi = sort.Search(n, func(i int) bool { return cmpMin(i) > 0 })
		case OpLT:
			lo, hi = 0, sort.Search(n, func(i int) bool { return cmpMin(i) >= 0 })
		case OpLTEQ:
			lo, hi = 0, sort.Search(n, func(i int) bool { return cmpMin(i) > 0 })
		case OpGT:
			lo, hi = sort.Search(n, func(i int) bool { return cmpMax(i) > 0 }), n
		case OpGTEQ:
			lo, hi = sort.Search(n, func(i int) bool { return cmpMax(i) >= 0 }), n
		default:
			panic(fmt.Errorf("%w: ordered page search for operation %s", ErrNotImplemented, op))
		}
	} else {
		// page mins and maxes are both non-increasing
		switch op {
		case OpEQ:
			lo = sort.Search(n, func(i int) bool { return cmpMin(i) <= 0 })
			hi = sort.Search(n, func(i int) bool { return cmpMax(i) < 0 })
		case OpLT:
			lo, hi = sort.Search(n, func(i int) bool { return cmpMin(i) < 0 }), n
		case OpLTEQ:
			lo, hi = sort.Search(n, func(i int) bool { return cmpMin(i) <= 0 }), n
		case OpGT:
			lo, hi = 0, sort.Search(n, func(i int) bool { return cmpMax(i) <= 0 })
		case OpGTEQ:
			lo, hi = 0, sort.Search(n, func(i int) bool { return cmpMax(i) < 0 })
		default:
			panic(fmt.Errorf("%w: ordered page search for operation %s", ErrNotImplemented, op))
		}
	}

	if lo >= hi {
		return nil
	}

	return slices.Clone(pages[lo:hi])
}

func linearScan(idx *ColumnPageIndex, op Operation, lit Literal, groupRows int64) []int {
	var out []int
	for i := 0; i < idx.NumPages(); i++ {
		if statsMightMatch(op, idx.Stats(i), lit, idx.pageRows(i, groupRows)) {
			out = append(out, i)
		}
	}

	return out
}

// candidatePagesIn resolves an In predicate as the union of the per-value
// equality resolutions. This stays page-precise on ordered columns instead
// of collapsing the set to its overall [min, max] envelope.
func candidatePagesIn(idx *ColumnPageIndex, lits Set[Literal], groupRows int64) []int {
	var out []int
	lits.All(func(lit Literal) bool {
		out = append(out, candidatePages(idx, OpEQ, lit, groupRows)...)

		return true
	})
	slices.Sort(out)

	return slices.Compact(out)
}

// candidatePagesNotIn keeps every page except those proved single-valued
// with the value a member of the set.
func candidatePagesNotIn(idx *ColumnPageIndex, lits Set[Literal], groupRows int64) []int {
	var out []int
	for i := 0; i < idx.NumPages(); i++ {
		s := idx.Stats(i)
		rows := idx.pageRows(i, groupRows)
		if rows > 0 && s.NullCount >= rows {
			continue
		}
		if s.Min != nil && s.Max != nil && compareLiterals(s.Min, s.Max) == 0 {
			excluded := !lits.All(func(lit Literal) bool {
				return compareLiterals(s.Min, lit) != 0
			})
			if excluded {
				continue
			}
		}
		out = append(out, i)
	}

	return out
}
