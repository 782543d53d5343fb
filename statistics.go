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
	"encoding/binary"
	"math"
	"slices"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/metadata"
)

const (
	rowsMightMatch  = true
	rowsCannotMatch = false

	inPredicateLimit = 200
)

// NewRowGroupStatsEvaluator returns a function that tests whether a row
// group might contain rows matching expr, using only the column chunk
// statistics of the row group's metadata. It is the coarse filter applied
// before page-level resolution: a false return means the whole group can
// be skipped without decoding its page indexes.
func NewRowGroupStatsEvaluator(expr BooleanExpression) (func(*metadata.RowGroupMetaData) (bool, error), error) {
	rewritten, err := RewriteNotExpr(expr)
	if err != nil {
		return nil, err
	}

	return (&chunkStatsEval{expr: rewritten}).TestRowGroup, nil
}

type chunkStatsEval struct {
	expr BooleanExpression

	valueCounts map[string]int64
	nullCounts  map[string]int64
	lowerBounds map[string]Literal
	upperBounds map[string]Literal
}

func (e *chunkStatsEval) TestRowGroup(rgmeta *metadata.RowGroupMetaData) (bool, error) {
	if rgmeta.NumRows() == 0 {
		return rowsCannotMatch, nil
	}

	e.valueCounts = make(map[string]int64)
	e.nullCounts = make(map[string]int64)
	e.lowerBounds = make(map[string]Literal)
	e.upperBounds = make(map[string]Literal)

	for i := 0; i < rgmeta.NumColumns(); i++ {
		colMeta, err := rgmeta.ColumnChunk(i)
		if err != nil {
			return false, err
		}

		if ok, err := colMeta.StatsSet(); !ok || err != nil {
			continue
		}

		stats, err := colMeta.Statistics()
		if err != nil {
			return false, err
		}
		if stats == nil {
			continue
		}

		path := colMeta.PathInSchema().String()
		e.valueCounts[path] = stats.NumValues()
		if stats.HasNullCount() {
			e.nullCounts[path] = stats.NullCount()
		}
		if stats.HasMinMax() {
			if lower := literalFromPlain(stats.Type(), stats.EncodeMin()); lower != nil {
				e.lowerBounds[path] = lower
			}
			if upper := literalFromPlain(stats.Type(), stats.EncodeMax()); upper != nil {
				e.upperBounds[path] = upper
			}
		}
	}

	return VisitExpr(e.expr, e)
}

// literalFromPlain decodes a plain-encoded statistics value for the given
// physical type. Types without a literal representation decode as nil,
// which drops the bound and falls open.
func literalFromPlain(typ parquet.Type, data []byte) Literal {
	switch typ {
	case parquet.Types.Boolean:
		if len(data) < 1 {
			return nil
		}

		return BoolLiteral(data[0] != 0)
	case parquet.Types.Int32:
		if len(data) < 4 {
			return nil
		}

		return Int32Literal(int32(binary.LittleEndian.Uint32(data)))
	case parquet.Types.Int64:
		if len(data) < 8 {
			return nil
		}

		return Int64Literal(int64(binary.LittleEndian.Uint64(data)))
	case parquet.Types.Float:
		if len(data) < 4 {
			return nil
		}

		return Float32Literal(math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case parquet.Types.Double:
		if len(data) < 8 {
			return nil
		}

		return Float64Literal(math.Float64frombits(binary.LittleEndian.Uint64(data)))
	case parquet.Types.ByteArray, parquet.Types.FixedLenByteArray:
		return BinaryLiteral(slices.Clone(data))
	}

	return nil
}

func (e *chunkStatsEval) containsNullsOnly(path string) bool {
	// NumValues counts non-null values, unlike the null count it is
	// always recorded
	vc, ok := e.valueCounts[path]

	return ok && vc == 0
}

func (e *chunkStatsEval) isNan(v Literal) bool {
	switch v := v.(type) {
	case Float32Literal:
		return math.IsNaN(float64(v))
	case Float64Literal:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

func (e *chunkStatsEval) VisitTrue() bool  { return rowsMightMatch }
func (e *chunkStatsEval) VisitFalse() bool { return rowsCannotMatch }

func (e *chunkStatsEval) VisitNot(child bool) bool {
	panic("NotExpr should be rewritten before evaluating row group statistics")
}

func (e *chunkStatsEval) VisitAnd(left, right bool) bool { return left && right }
func (e *chunkStatsEval) VisitOr(left, right bool) bool  { return left || right }

func (e *chunkStatsEval) VisitPredicate(p Predicate) bool {
	return visitPredicate(p, e)
}

func (e *chunkStatsEval) VisitLess(ref Reference, lit Literal) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if lower, ok := e.lowerBounds[path]; ok {
		if e.isNan(lower) {
			// nan indicates unreliable bounds
			return rowsMightMatch
		}
		if compareLiterals(lower, lit) >= 0 {
			return rowsCannotMatch
		}
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitLessEqual(ref Reference, lit Literal) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if lower, ok := e.lowerBounds[path]; ok {
		if e.isNan(lower) {
			return rowsMightMatch
		}
		if compareLiterals(lower, lit) > 0 {
			return rowsCannotMatch
		}
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitGreater(ref Reference, lit Literal) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if upper, ok := e.upperBounds[path]; ok {
		if compareLiterals(upper, lit) <= 0 {
			if e.isNan(upper) {
				return rowsMightMatch
			}

			return rowsCannotMatch
		}
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitGreaterEqual(ref Reference, lit Literal) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if upper, ok := e.upperBounds[path]; ok {
		if compareLiterals(upper, lit) < 0 {
			if e.isNan(upper) {
				return rowsMightMatch
			}

			return rowsCannotMatch
		}
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitEqual(ref Reference, lit Literal) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if lower, ok := e.lowerBounds[path]; ok {
		if e.isNan(lower) {
			return rowsMightMatch
		}
		if compareLiterals(lower, lit) > 0 {
			return rowsCannotMatch
		}
	}

	if upper, ok := e.upperBounds[path]; ok {
		if e.isNan(upper) {
			return rowsMightMatch
		}
		if compareLiterals(upper, lit) < 0 {
			return rowsCannotMatch
		}
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitNotEqual(Reference, Literal) bool {
	// chunk bounds can't prove every row equal to one value
	return rowsMightMatch
}

func (e *chunkStatsEval) VisitIn(ref Reference, lits Set[Literal]) bool {
	path := string(ref)
	if e.containsNullsOnly(path) {
		return rowsCannotMatch
	}

	if lits.Len() > inPredicateLimit {
		// skip evaluating the predicate if the number of values is too big
		return rowsMightMatch
	}

	lower, hasLower := e.lowerBounds[path]
	upper, hasUpper := e.upperBounds[path]
	if (hasLower && e.isNan(lower)) || (hasUpper && e.isNan(upper)) {
		return rowsMightMatch
	}

	anyInBounds := !lits.All(func(lit Literal) bool {
		if hasLower && compareLiterals(lower, lit) > 0 {
			return true
		}
		if hasUpper && compareLiterals(upper, lit) < 0 {
			return true
		}

		return false
	})
	if !anyInBounds && (hasLower || hasUpper) {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

func (e *chunkStatsEval) VisitNotIn(Reference, Set[Literal]) bool {
	return rowsMightMatch
}
