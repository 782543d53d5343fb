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
	"bytes"
	"cmp"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// LiteralType is a generic type constraint for the explicit Go types that we
// allow as statistics values and predicate operands.
type LiteralType interface {
	bool | int32 | int64 | float32 | float64 | string | []byte | uuid.UUID
}

// Comparator is a comparison function for two values of the same type.
// It returns 0 if the values are equal, a negative value if v1 < v2,
// and a positive value if v1 > v2.
type Comparator[T LiteralType] func(v1, v2 T) int

// Literal is a non-null literal value.
type Literal interface {
	fmt.Stringer
	Any() any
	Equals(Literal) bool
}

// TypedLiteral is a generic interface for Literals so that you can retrieve
// the value and an appropriate comparator.
type TypedLiteral[T LiteralType] interface {
	Literal

	Value() T
	Comparator() Comparator[T]
}

// NewLiteral provides a literal based on the type of T.
func NewLiteral[T LiteralType](val T) Literal {
	switch v := any(val).(type) {
	case bool:
		return BoolLiteral(v)
	case int32:
		return Int32Literal(v)
	case int64:
		return Int64Literal(v)
	case float32:
		return Float32Literal(v)
	case float64:
		return Float64Literal(v)
	case string:
		return StringLiteral(v)
	case []byte:
		return BinaryLiteral(v)
	case uuid.UUID:
		return UUIDLiteral(v)
	}
	panic("can't happen due to literal type constraint")
}

func literalEq[T LiteralType](lhs TypedLiteral[T], other Literal) bool {
	rhs, ok := other.(TypedLiteral[T])
	if !ok {
		return false
	}

	return lhs.Comparator()(lhs.Value(), rhs.Value()) == 0
}

func typedValue[T LiteralType](lhs TypedLiteral[T], rhs Literal) T {
	typed, ok := rhs.(TypedLiteral[T])
	if !ok {
		panic(fmt.Errorf("%w: cannot compare %s with %s", ErrType, lhs, rhs))
	}

	return typed.Value()
}

// compareLiterals compares two literals of the same type, returning 0 for
// equal, -1 if lhs is less and 1 if lhs is greater. String and binary
// literals compare with each other bytewise since byte-array column
// statistics and string predicates routinely meet. Any other type mix
// panics with ErrType, which evaluation entry points recover into an error.
func compareLiterals(lhs, rhs Literal) int {
	switch l := lhs.(type) {
	case BoolLiteral:
		return l.Comparator()(l.Value(), typedValue[bool](l, rhs))
	case Int32Literal:
		return l.Comparator()(l.Value(), typedValue[int32](l, rhs))
	case Int64Literal:
		return l.Comparator()(l.Value(), typedValue[int64](l, rhs))
	case Float32Literal:
		return l.Comparator()(l.Value(), typedValue[float32](l, rhs))
	case Float64Literal:
		return l.Comparator()(l.Value(), typedValue[float64](l, rhs))
	case StringLiteral:
		if bin, ok := rhs.(BinaryLiteral); ok {
			return bytes.Compare([]byte(l), bin)
		}

		return l.Comparator()(l.Value(), typedValue[string](l, rhs))
	case BinaryLiteral:
		if str, ok := rhs.(StringLiteral); ok {
			return bytes.Compare(l, []byte(str))
		}

		return l.Comparator()(l.Value(), typedValue[[]byte](l, rhs))
	case UUIDLiteral:
		return l.Comparator()(l.Value(), typedValue[uuid.UUID](l, rhs))
	}
	panic(fmt.Errorf("%w: unhandled literal type %T", ErrNotImplemented, lhs))
}

type BoolLiteral bool

func (BoolLiteral) Comparator() Comparator[bool] {
	return func(v1, v2 bool) int {
		if v1 {
			if v2 {
				return 0
			}

			return 1
		}
		if v2 {
			return -1
		}

		return 0
	}
}

func (b BoolLiteral) Value() bool             { return bool(b) }
func (b BoolLiteral) Any() any                { return b.Value() }
func (b BoolLiteral) String() string          { return strconv.FormatBool(bool(b)) }
func (b BoolLiteral) Equals(other Literal) bool {
	return literalEq(b, other)
}

type Int32Literal int32

func (Int32Literal) Comparator() Comparator[int32] { return cmp.Compare[int32] }
func (i Int32Literal) Value() int32                { return int32(i) }
func (i Int32Literal) Any() any                    { return i.Value() }
func (i Int32Literal) String() string              { return strconv.FormatInt(int64(i), 10) }
func (i Int32Literal) Equals(other Literal) bool {
	return literalEq(i, other)
}

type Int64Literal int64

func (Int64Literal) Comparator() Comparator[int64] { return cmp.Compare[int64] }
func (i Int64Literal) Value() int64                { return int64(i) }
func (i Int64Literal) Any() any                    { return i.Value() }
func (i Int64Literal) String() string              { return strconv.FormatInt(int64(i), 10) }
func (i Int64Literal) Equals(other Literal) bool {
	return literalEq(i, other)
}

type Float32Literal float32

func (Float32Literal) Comparator() Comparator[float32] { return cmp.Compare[float32] }
func (f Float32Literal) Value() float32                { return float32(f) }
func (f Float32Literal) Any() any                      { return f.Value() }
func (f Float32Literal) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
func (f Float32Literal) Equals(other Literal) bool {
	return literalEq(f, other)
}

type Float64Literal float64

func (Float64Literal) Comparator() Comparator[float64] { return cmp.Compare[float64] }
func (f Float64Literal) Value() float64                { return float64(f) }
func (f Float64Literal) Any() any                      { return f.Value() }
func (f Float64Literal) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}
func (f Float64Literal) Equals(other Literal) bool {
	return literalEq(f, other)
}

type StringLiteral string

func (StringLiteral) Comparator() Comparator[string] { return cmp.Compare[string] }
func (s StringLiteral) Value() string                { return string(s) }
func (s StringLiteral) Any() any                     { return s.Value() }
func (s StringLiteral) String() string               { return string(s) }
func (s StringLiteral) Equals(other Literal) bool {
	return literalEq(s, other)
}

type BinaryLiteral []byte

func (BinaryLiteral) Comparator() Comparator[[]byte] { return bytes.Compare }
func (b BinaryLiteral) Value() []byte                { return []byte(b) }
func (b BinaryLiteral) Any() any                     { return b.Value() }
func (b BinaryLiteral) String() string               { return string(b) }
func (b BinaryLiteral) Equals(other Literal) bool {
	rhs, ok := other.(BinaryLiteral)
	if !ok {
		return false
	}

	return bytes.Equal(b, rhs)
}

type UUIDLiteral uuid.UUID

func (UUIDLiteral) Comparator() Comparator[uuid.UUID] {
	return func(v1, v2 uuid.UUID) int {
		return bytes.Compare(v1[:], v2[:])
	}
}

func (u UUIDLiteral) Value() uuid.UUID { return uuid.UUID(u) }
func (u UUIDLiteral) Any() any         { return u.Value() }
func (u UUIDLiteral) String() string   { return uuid.UUID(u).String() }
func (u UUIDLiteral) Equals(other Literal) bool {
	rhs, ok := other.(UUIDLiteral)
	if !ok {
		return false
	}

	return uuid.UUID(u) == uuid.UUID(rhs)
}
