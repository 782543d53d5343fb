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
	"cmp"
	"fmt"
	"slices"
)

// RowRange is a half-open interval of row positions within a single row
// group: Start is inclusive, End exclusive.
type RowRange struct {
	Start, End int64
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

func (r RowRange) empty() bool { return r.Start >= r.End }

// Overlaps reports whether the two ranges share at least one row.
func (r RowRange) Overlaps(other RowRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// MergeRowRanges normalizes a range slice: sorts by start, drops empty
// ranges, and coalesces overlapping or adjacent ranges. The result is the
// canonical form every other range operation returns, so applying it twice
// is a no-op.
func MergeRowRanges(rr []RowRange) []RowRange {
	in := make([]RowRange, 0, len(rr))
	for _, r := range rr {
		if !r.empty() {
			in = append(in, r)
		}
	}
	slices.SortFunc(in, func(a, b RowRange) int {
		return cmp.Compare(a.Start, b.Start)
	})

	out := make([]RowRange, 0, len(in))
	for _, r := range in {
		if len(out) > 0 && r.Start <= out[len(out)-1].End {
			if r.End > out[len(out)-1].End {
				out[len(out)-1].End = r.End
			}

			continue
		}
		out = append(out, r)
	}

	return out
}

// UnionRowRanges returns the normalized union of two range slices.
func UnionRowRanges(a, b []RowRange) []RowRange {
	return MergeRowRanges(append(slices.Clone(a), b...))
}

// IntersectRowRanges returns the normalized intersection of two range
// slices. Both inputs must already be in canonical (merged) form.
func IntersectRowRanges(a, b []RowRange) []RowRange {
	var out []RowRange
	for i, j := 0, 0; i < len(a) && j < len(b); {
		lo := max(a[i].Start, b[j].Start)
		hi := min(a[i].End, b[j].End)
		if lo < hi {
			out = append(out, RowRange{Start: lo, End: hi})
		}

		// advance whichever range ends first
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}

	return out
}

// ComplementRowRanges returns the rows of full not covered by rr. rr must
// be in canonical form and contained within full.
func ComplementRowRanges(rr []RowRange, full RowRange) []RowRange {
	if full.empty() {
		return nil
	}

	var out []RowRange
	next := full.Start
	for _, r := range rr {
		if r.End <= full.Start || r.Start >= full.End {
			continue
		}
		if r.Start > next {
			out = append(out, RowRange{Start: next, End: r.Start})
		}
		if r.End > next {
			next = r.End
		}
	}
	if next < full.End {
		out = append(out, RowRange{Start: next, End: full.End})
	}

	return out
}

// rowRangesCover reports whether rr (canonical) covers exactly the single
// interval full.
func rowRangesCover(rr []RowRange, full RowRange) bool {
	return len(rr) == 1 && rr[0].Start <= full.Start && rr[0].End >= full.End
}
