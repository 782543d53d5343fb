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

// IsIn is a convenience wrapper for constructing a set predicate for OpIn.
// It returns a BooleanExpression instead of a Predicate because depending
// on the arguments, it can automatically reduce to AlwaysFalse (if given no
// values for example). It may also reduce to EqualTo if only one value is
// provided.
func IsIn[T LiteralType](ref Reference, vals ...T) BooleanExpression {
	lits := make([]Literal, 0, len(vals))
	for _, v := range vals {
		lits = append(lits, NewLiteral(v))
	}

	return SetPredicate(OpIn, ref, lits)
}

// NotIn is a convenience wrapper for constructing a set predicate for
// OpNotIn. It returns a BooleanExpression instead of a Predicate because
// depending on the arguments, it can automatically reduce to AlwaysTrue or
// NotEqualTo.
func NotIn[T LiteralType](ref Reference, vals ...T) BooleanExpression {
	lits := make([]Literal, 0, len(vals))
	for _, v := range vals {
		lits = append(lits, NewLiteral(v))
	}

	return SetPredicate(OpNotIn, ref, lits)
}

// EqualTo is a convenience wrapper for calling LiteralPredicate(OpEQ, ref, NewLiteral(v))
func EqualTo[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpEQ, ref, NewLiteral(v))
}

// NotEqualTo is a convenience wrapper for calling LiteralPredicate(OpNEQ, ref, NewLiteral(v))
func NotEqualTo[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpNEQ, ref, NewLiteral(v))
}

// GreaterThanEqual is a convenience wrapper for calling LiteralPredicate(OpGTEQ,
// ref, NewLiteral(v))
func GreaterThanEqual[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpGTEQ, ref, NewLiteral(v))
}

// GreaterThan is a convenience wrapper for calling LiteralPredicate(OpGT,
// ref, NewLiteral(v))
func GreaterThan[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpGT, ref, NewLiteral(v))
}

// LessThanEqual is a convenience wrapper for calling LiteralPredicate(OpLTEQ,
// ref, NewLiteral(v))
func LessThanEqual[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpLTEQ, ref, NewLiteral(v))
}

// LessThan is a convenience wrapper for calling LiteralPredicate(OpLT,
// ref, NewLiteral(v))
func LessThan[T LiteralType](ref Reference, v T) Predicate {
	return LiteralPredicate(OpLT, ref, NewLiteral(v))
}
