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

import "errors"

var (
	// ErrInvalidArgument is returned or wrapped when a caller passes an
	// argument that can never be valid, such as a nil expression child.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrType is returned or wrapped when literal types are mixed in a way
	// that has no defined comparison.
	ErrType = errors.New("invalid type")
	// ErrNotImplemented is returned or wrapped when an expression or
	// operation is not handled by an evaluator.
	ErrNotImplemented = errors.New("not implemented")
	// ErrUnknownColumn is returned when a predicate references a column
	// that does not exist in the row group being resolved.
	ErrUnknownColumn = errors.New("unknown column reference")
	// ErrMalformedMetadata is returned when page index metadata cannot be
	// decoded or violates the format's structural rules.
	ErrMalformedMetadata = errors.New("malformed page index metadata")
	// ErrInconsistentLayout is returned when the column index and offset
	// index of a column chunk disagree on the number of pages.
	ErrInconsistentLayout = errors.New("column and offset index page counts differ")
	// ErrStatsUnavailable is returned by RowGroupIndex.PageIndex when a
	// column exists but its page statistics were not written. Resolution
	// treats it as "might match" rather than surfacing it to callers.
	ErrStatsUnavailable = errors.New("statistics unavailable")
)
