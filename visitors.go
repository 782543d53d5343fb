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
)

type BooleanExprVisitor[T any] interface {
	VisitTrue() T
	VisitFalse() T
	VisitNot(childResult T) T
	VisitAnd(left, right T) T
	VisitOr(left, right T) T
	VisitPredicate(Predicate) T
}

// PredicateVisitor embeds BooleanExprVisitor and adds per-operation
// callbacks for predicate leaves, dispatched via visitPredicate.
type PredicateVisitor[T any] interface {
	BooleanExprVisitor[T]

	VisitIn(Reference, Set[Literal]) T
	VisitNotIn(Reference, Set[Literal]) T
	VisitEqual(Reference, Literal) T
	VisitNotEqual(Reference, Literal) T
	VisitGreaterEqual(Reference, Literal) T
	VisitGreater(Reference, Literal) T
	VisitLessEqual(Reference, Literal) T
	VisitLess(Reference, Literal) T
}

func VisitExpr[T any](expr BooleanExpression, visitor BooleanExprVisitor[T]) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case string:
				err = fmt.Errorf("error encountered during visitExpr: %s", e)
			case error:
				err = e
			}
		}
	}()

	return visitBoolExpr(expr, visitor), err
}

func visitBoolExpr[T any](e BooleanExpression, visitor BooleanExprVisitor[T]) T {
	switch e := e.(type) {
	case AlwaysFalse:
		return visitor.VisitFalse()
	case AlwaysTrue:
		return visitor.VisitTrue()
	case AndExpr:
		left, right := visitBoolExpr(e.left, visitor), visitBoolExpr(e.right, visitor)

		return visitor.VisitAnd(left, right)
	case OrExpr:
		left, right := visitBoolExpr(e.left, visitor), visitBoolExpr(e.right, visitor)

		return visitor.VisitOr(left, right)
	case NotExpr:
		child := visitBoolExpr(e.child, visitor)

		return visitor.VisitNot(child)
	case Predicate:
		return visitor.VisitPredicate(e)
	}
	panic(fmt.Errorf("%w: VisitBooleanExpression type %s", ErrNotImplemented, e))
}

func visitPredicate[T any](e Predicate, visitor PredicateVisitor[T]) T {
	switch e.Op() {
	case OpIn:
		return visitor.VisitIn(e.Ref(), e.(setPredicate).Literals())
	case OpNotIn:
		return visitor.VisitNotIn(e.Ref(), e.(setPredicate).Literals())
	case OpEQ:
		return visitor.VisitEqual(e.Ref(), e.(literalPredicate).Literal())
	case OpNEQ:
		return visitor.VisitNotEqual(e.Ref(), e.(literalPredicate).Literal())
	case OpGTEQ:
		return visitor.VisitGreaterEqual(e.Ref(), e.(literalPredicate).Literal())
	case OpGT:
		return visitor.VisitGreater(e.Ref(), e.(literalPredicate).Literal())
	case OpLTEQ:
		return visitor.VisitLessEqual(e.Ref(), e.(literalPredicate).Literal())
	case OpLT:
		return visitor.VisitLess(e.Ref(), e.(literalPredicate).Literal())
	}
	panic(fmt.Errorf("%w: unhandled predicate type: %s", ErrNotImplemented, e))
}

// RewriteNotExpr rewrites a boolean expression to remove NotExpr nodes
// by pushing the negation down into the leaves via Negate. Pruning
// evaluators compute supersets of the matching rows, so they cannot
// soundly complement a child result; they require negation-free input.
func RewriteNotExpr(expr BooleanExpression) (BooleanExpression, error) {
	return VisitExpr(expr, rewriteNotVisitor{})
}

type rewriteNotVisitor struct{}

func (rewriteNotVisitor) VisitTrue() BooleanExpression  { return AlwaysTrue{} }
func (rewriteNotVisitor) VisitFalse() BooleanExpression { return AlwaysFalse{} }
func (rewriteNotVisitor) VisitNot(child BooleanExpression) BooleanExpression {
	return child.Negate()
}

func (rewriteNotVisitor) VisitAnd(left, right BooleanExpression) BooleanExpression {
	return NewAnd(left, right)
}

func (rewriteNotVisitor) VisitOr(left, right BooleanExpression) BooleanExpression {
	return NewOr(left, right)
}

func (rewriteNotVisitor) VisitPredicate(pred Predicate) BooleanExpression {
	return pred
}

// ReferencedColumns returns the distinct columns referenced by the
// predicate leaves of expr, in first-appearance order.
func ReferencedColumns(expr BooleanExpression) ([]Reference, error) {
	v := &refCollector{}
	if _, err := VisitExpr(expr, v); err != nil {
		return nil, err
	}

	return v.refs, nil
}

type refCollector struct {
	refs []Reference
}

func (*refCollector) VisitTrue() struct{}             { return struct{}{} }
func (*refCollector) VisitFalse() struct{}            { return struct{}{} }
func (*refCollector) VisitNot(struct{}) struct{}      { return struct{}{} }
func (*refCollector) VisitAnd(_, _ struct{}) struct{} { return struct{}{} }
func (*refCollector) VisitOr(_, _ struct{}) struct{}  { return struct{}{} }

func (v *refCollector) VisitPredicate(pred Predicate) struct{} {
	if !slices.Contains(v.refs, pred.Ref()) {
		v.refs = append(v.refs, pred.Ref())
	}

	return struct{}{}
}
