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
	"errors"
	"fmt"
	"iter"
)

// OutcomeKind classifies how much of a row group a reader has to fetch.
type OutcomeKind int

const (
	// SkipEntireRowGroup means no row of the group can match.
	SkipEntireRowGroup OutcomeKind = iota
	// ReadEntireRowGroup means pruning gained nothing; read it whole.
	ReadEntireRowGroup
	// ReadRowRanges means only Ranges can contain matching rows.
	ReadRowRanges
)

func (k OutcomeKind) String() string {
	switch k {
	case SkipEntireRowGroup:
		return "SkipEntireRowGroup"
	case ReadEntireRowGroup:
		return "ReadEntireRowGroup"
	case ReadRowRanges:
		return "ReadRowRanges"
	}

	return "OutcomeKind(" + fmt.Sprint(int(k)) + ")"
}

// RowRangeOutcome is the result of resolving a predicate against one row
// group. Ranges is populated only for ReadRowRanges and is always in
// canonical merged form.
type RowRangeOutcome struct {
	Kind   OutcomeKind
	Ranges []RowRange
}

// ResolveRowGroup resolves expr against the page statistics of a single
// row group. The returned ranges are a superset of the rows that actually
// match: absent statistics widen the result, never narrow it. A predicate
// referencing a column the row group does not have at all fails with
// ErrUnknownColumn before any page is considered.
func ResolveRowGroup(rg *RowGroupIndex, expr BooleanExpression) (RowRangeOutcome, error) {
	if rg == nil || expr == nil {
		return RowRangeOutcome{}, fmt.Errorf("%w: nil row group index or expression",
			ErrInvalidArgument)
	}

	refs, err := ReferencedColumns(expr)
	if err != nil {
		return RowRangeOutcome{}, err
	}
	for _, ref := range refs {
		if _, err := rg.PageIndex(string(ref)); err != nil && !errors.Is(err, ErrStatsUnavailable) {
			return RowRangeOutcome{}, err
		}
	}

	// Page statistics describe a superset of the matching rows, so a
	// child result cannot be complemented. Push negations into the
	// leaves up front.
	rewritten, err := RewriteNotExpr(expr)
	if err != nil {
		return RowRangeOutcome{}, err
	}

	ranges, err := (&rowRangeEvaluator{rg: rg}).Eval(rewritten)
	if err != nil {
		return RowRangeOutcome{}, err
	}

	switch {
	case len(ranges) == 0:
		return RowRangeOutcome{Kind: SkipEntireRowGroup}, nil
	case rowRangesCover(ranges, RowRange{Start: 0, End: rg.NumRows()}):
		return RowRangeOutcome{Kind: ReadEntireRowGroup}, nil
	default:
		return RowRangeOutcome{Kind: ReadRowRanges, Ranges: ranges}, nil
	}
}

// ResolveAll resolves expr against every row group of cat in order,
// decoding each row group's indexes only when the consumer pulls it.
func ResolveAll(cat CatalogReader, expr BooleanExpression) iter.Seq2[RowRangeOutcome, error] {
	return func(yield func(RowRangeOutcome, error) bool) {
		for i := 0; i < cat.NumRowGroups(); i++ {
			rg, err := cat.RowGroup(i)
			if err != nil {
				yield(RowRangeOutcome{}, err)

				return
			}

			out, err := ResolveRowGroup(rg, expr)
			if !yield(out, err) || err != nil {
				return
			}
		}
	}
}

type rowRangeEvaluator struct {
	rg *RowGroupIndex
}

func (e *rowRangeEvaluator) Eval(expr BooleanExpression) (res []RowRange, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch t := r.(type) {
			case string:
				err = fmt.Errorf("error encountered during row range evaluation: %s", t)
			case error:
				err = t
			}
		}
	}()

	return e.eval(expr), err
}

func (e *rowRangeEvaluator) full() []RowRange {
	if e.rg.NumRows() == 0 {
		return nil
	}

	return []RowRange{{Start: 0, End: e.rg.NumRows()}}
}

func (e *rowRangeEvaluator) eval(expr BooleanExpression) []RowRange {
	switch t := expr.(type) {
	case AlwaysTrue:
		return e.full()
	case AlwaysFalse:
		return nil
	case AndExpr:
		left := e.eval(t.left)
		if len(left) == 0 {
			// the other branch cannot widen an empty intersection
			return nil
		}

		return IntersectRowRanges(left, e.eval(t.right))
	case OrExpr:
		return UnionRowRanges(e.eval(t.left), e.eval(t.right))
	case NotExpr:
		// only reachable for an expression RewriteNotExpr could not
		// reduce; fail open rather than complement a superset
		return e.full()
	case Predicate:
		return e.evalPredicate(t)
	}
	panic(fmt.Errorf("%w: row range evaluation for %s", ErrNotImplemented, expr))
}

func (e *rowRangeEvaluator) evalPredicate(p Predicate) []RowRange {
	idx, err := e.rg.PageIndex(string(p.Ref()))
	if err != nil {
		// ErrStatsUnavailable, or a reference the caller never validated:
		// every row might match
		return e.full()
	}

	var pages []int
	switch p.Op() {
	case OpIn:
		pages = candidatePagesIn(idx, p.(setPredicate).Literals(), e.rg.NumRows())
	case OpNotIn:
		pages = candidatePagesNotIn(idx, p.(setPredicate).Literals(), e.rg.NumRows())
	default:
		pages = candidatePages(idx, p.Op(), p.(literalPredicate).Literal(), e.rg.NumRows())
	}

	rr := make([]RowRange, 0, len(pages))
	for _, pg := range pages {
		rr = append(rr, idx.rowRange(pg, e.rg.NumRows()))
	}

	return MergeRowRanges(rr)
}
