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
	"strings"
)

// Operation is an enum used for constants to define what operation a given
// expression or predicate is going to execute.
type Operation int

const (
	OpTrue Operation = iota
	OpFalse
	// literal ops
	OpLT
	OpLTEQ
	OpGT
	OpGTEQ
	OpEQ
	OpNEQ
	// set ops
	OpIn
	OpNotIn
	// boolean ops
	OpNot
	OpAnd
	OpOr
)

func (op Operation) String() string {
	switch op {
	case OpTrue:
		return "True"
	case OpFalse:
		return "False"
	case OpLT:
		return "LessThan"
	case OpLTEQ:
		return "LessThanEqual"
	case OpGT:
		return "GreaterThan"
	case OpGTEQ:
		return "GreaterThanEqual"
	case OpEQ:
		return "Equal"
	case OpNEQ:
		return "NotEqual"
	case OpIn:
		return "In"
	case OpNotIn:
		return "NotIn"
	case OpNot:
		return "Not"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	}

	return "Operation(" + fmt.Sprint(int(op)) + ")"
}

// Negate returns the inverse operation for a given op
func (op Operation) Negate() Operation {
	switch op {
	case OpLT:
		return OpGTEQ
	case OpLTEQ:
		return OpGT
	case OpGT:
		return OpLTEQ
	case OpGTEQ:
		return OpLT
	case OpEQ:
		return OpNEQ
	case OpNEQ:
		return OpEQ
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	default:
		panic("no negation for operation " + op.String())
	}
}

// BooleanExpression represents a full expression which will evaluate to a
// boolean value such as GreaterThan or EqualTo, etc.
type BooleanExpression interface {
	fmt.Stringer
	Op() Operation
	Negate() BooleanExpression
	Equals(BooleanExpression) bool
}

// AlwaysTrue is the boolean expression "True"
type AlwaysTrue struct{}

func (AlwaysTrue) String() string            { return "AlwaysTrue()" }
func (AlwaysTrue) Op() Operation             { return OpTrue }
func (AlwaysTrue) Negate() BooleanExpression { return AlwaysFalse{} }
func (AlwaysTrue) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysTrue)

	return ok
}

// AlwaysFalse is the boolean expression "False"
type AlwaysFalse struct{}

func (AlwaysFalse) String() string            { return "AlwaysFalse()" }
func (AlwaysFalse) Op() Operation             { return OpFalse }
func (AlwaysFalse) Negate() BooleanExpression { return AlwaysTrue{} }
func (AlwaysFalse) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysFalse)

	return ok
}

type NotExpr struct {
	child BooleanExpression
}

// NewNot creates a BooleanExpression representing a "Not" operation on the given
// argument. It will optimize slightly though:
//
// If the argument is AlwaysTrue or AlwaysFalse, the appropriate inverse expression
// will be returned directly. If the argument is itself a NotExpr, then the child
// will be returned rather than NotExpr(NotExpr(child)).
func NewNot(child BooleanExpression) BooleanExpression {
	if child == nil {
		panic(fmt.Errorf("%w: cannot create NotExpr with nil child",
			ErrInvalidArgument))
	}

	switch t := child.(type) {
	case NotExpr:
		return t.child
	case AlwaysTrue:
		return AlwaysFalse{}
	case AlwaysFalse:
		return AlwaysTrue{}
	}

	return NotExpr{child: child}
}

func (n NotExpr) String() string            { return "Not(child=" + n.child.String() + ")" }
func (NotExpr) Op() Operation               { return OpNot }
func (n NotExpr) Negate() BooleanExpression { return n.child }
func (n NotExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(NotExpr)
	if !ok {
		return false
	}

	return n.child.Equals(rhs.child)
}

type AndExpr struct {
	left, right BooleanExpression
}

func newAnd(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct AndExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysFalse{} || right == AlwaysFalse{}:
		return AlwaysFalse{}
	case left == AlwaysTrue{}:
		return right
	case right == AlwaysTrue{}:
		return left
	}

	return AndExpr{left: left, right: right}
}

// NewAnd will construct a new AndExpr, allowing the caller to provide potentially
// more than just two arguments which will be folded to create an appropriate expression
// tree. i.e. NewAnd(a, b, c, d) becomes AndExpr(a, AndExpr(b, AndExpr(c, d)))
//
// Slight optimizations are performed on creation if either argument is AlwaysFalse
// or AlwaysTrue by performing reductions. If any argument is AlwaysFalse, then everything
// will get folded to a return of AlwaysFalse. If an argument is AlwaysTrue, then the other
// argument will be returned directly rather than creating an AndExpr.
//
// Will panic if any argument is nil
func NewAnd(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newAnd(left, right)
	for _, a := range addl {
		folded = newAnd(folded, a)
	}

	return folded
}

func (a AndExpr) String() string {
	return "And(left=" + a.left.String() + ", right=" + a.right.String() + ")"
}

func (AndExpr) Op() Operation { return OpAnd }

func (a AndExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(AndExpr)
	if !ok {
		return false
	}

	return (a.left.Equals(rhs.left) && a.right.Equals(rhs.right)) ||
		(a.left.Equals(rhs.right) && a.right.Equals(rhs.left))
}

func (a AndExpr) Negate() BooleanExpression {
	return NewOr(a.left.Negate(), a.right.Negate())
}

type OrExpr struct {
	left, right BooleanExpression
}

func newOr(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct OrExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysTrue{} || right == AlwaysTrue{}:
		return AlwaysTrue{}
	case left == AlwaysFalse{}:
		return right
	case right == AlwaysFalse{}:
		return left
	}

	return OrExpr{left: left, right: right}
}

// NewOr will construct a new OrExpr, allowing the caller to provide potentially
// more than just two arguments which will be folded to create an appropriate expression
// tree. i.e. NewOr(a, b, c, d) becomes OrExpr(a, OrExpr(b, OrExpr(c, d)))
//
// Slight optimizations are performed on creation if either argument is AlwaysTrue
// or AlwaysFalse by performing reductions. If any argument is AlwaysTrue, then everything
// will get folded to a return of AlwaysTrue. If an argument is AlwaysFalse, then the other
// argument will be returned directly rather than creating an OrExpr.
//
// Will panic if any argument is nil
func NewOr(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newOr(left, right)
	for _, a := range addl {
		folded = newOr(folded, a)
	}

	return folded
}

func (o OrExpr) String() string {
	return "Or(left=" + o.left.String() + ", right=" + o.right.String() + ")"
}

func (OrExpr) Op() Operation { return OpOr }

func (o OrExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(OrExpr)
	if !ok {
		return false
	}

	return (o.left.Equals(rhs.left) && o.right.Equals(rhs.right)) ||
		(o.left.Equals(rhs.right) && o.right.Equals(rhs.left))
}

func (o OrExpr) Negate() BooleanExpression {
	return NewAnd(o.left.Negate(), o.right.Negate())
}

// Reference is a column referenced by a predicate, identified by the dotted
// path of the leaf column.
type Reference string

func (r Reference) String() string {
	return "Reference(name='" + string(r) + "')"
}

// Predicate is a boolean expression leaf that compares a referenced column
// against one or more literal values.
type Predicate interface {
	BooleanExpression

	Ref() Reference
}

type literalPredicate struct {
	op  Operation
	ref Reference
	lit Literal
}

// LiteralPredicate constructs a Predicate comparing the referenced column
// against a single literal value, like OpEQ or OpGTEQ.
//
// Will panic if lit is nil or op is not a valid literal operation.
func LiteralPredicate(op Operation, ref Reference, lit Literal) Predicate {
	if lit == nil {
		panic(fmt.Errorf("%w: cannot create literal predicate with nil literal",
			ErrInvalidArgument))
	}

	switch op {
	case OpLT, OpLTEQ, OpGT, OpGTEQ, OpEQ, OpNEQ:
	default:
		panic(fmt.Errorf("%w: invalid operation for literal predicate: %s",
			ErrInvalidArgument, op))
	}

	return literalPredicate{op: op, ref: ref, lit: lit}
}

func (p literalPredicate) String() string {
	return p.op.String() + "(term=" + p.ref.String() + ", literal=" + p.lit.String() + ")"
}

func (p literalPredicate) Op() Operation    { return p.op }
func (p literalPredicate) Ref() Reference   { return p.ref }
func (p literalPredicate) Literal() Literal { return p.lit }

func (p literalPredicate) Negate() BooleanExpression {
	return literalPredicate{op: p.op.Negate(), ref: p.ref, lit: p.lit}
}

func (p literalPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(literalPredicate)
	if !ok {
		return false
	}

	return p.op == rhs.op && p.ref == rhs.ref && p.lit.Equals(rhs.lit)
}

type setPredicate struct {
	op   Operation
	ref  Reference
	lits Set[Literal]
}

// SetPredicate constructs a boolean expression testing the referenced column
// for membership (OpIn) or non-membership (OpNotIn) of a set of literals.
// It returns a BooleanExpression rather than a Predicate because it reduces
// based on the de-duplicated values: an empty set becomes AlwaysFalse for
// OpIn and AlwaysTrue for OpNotIn, and a single remaining value becomes the
// corresponding equality predicate.
//
// Will panic if op is not OpIn or OpNotIn.
func SetPredicate(op Operation, ref Reference, lits []Literal) BooleanExpression {
	if op != OpIn && op != OpNotIn {
		panic(fmt.Errorf("%w: invalid operation for set predicate: %s",
			ErrInvalidArgument, op))
	}

	s := newLiteralSet(lits...)
	switch s.Len() {
	case 0:
		if op == OpIn {
			return AlwaysFalse{}
		}

		return AlwaysTrue{}
	case 1:
		lit := s.Members()[0]
		if op == OpIn {
			return LiteralPredicate(OpEQ, ref, lit)
		}

		return LiteralPredicate(OpNEQ, ref, lit)
	}

	return setPredicate{op: op, ref: ref, lits: s}
}

func (p setPredicate) String() string {
	members := p.lits.Members()
	vals := make([]string, len(members))
	for i, m := range members {
		vals[i] = m.String()
	}

	return p.op.String() + "(term=" + p.ref.String() + ", {" + strings.Join(vals, ", ") + "})"
}

func (p setPredicate) Op() Operation          { return p.op }
func (p setPredicate) Ref() Reference         { return p.ref }
func (p setPredicate) Literals() Set[Literal] { return p.lits }

func (p setPredicate) Negate() BooleanExpression {
	return setPredicate{op: p.op.Negate(), ref: p.ref, lits: p.lits}
}

func (p setPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(setPredicate)
	if !ok {
		return false
	}

	return p.op == rhs.op && p.ref == rhs.ref && p.lits.Equals(rhs.lits)
}
