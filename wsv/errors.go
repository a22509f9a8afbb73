// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"errors"
	"fmt"
)

// Command and accessor failures carry a small numeric code alongside a
// human-readable description. External callers pattern-match on the
// codes, so they are part of the stable surface. Several distinct
// failure classes share a numeric value within different commands,
// which is why some constants repeat.
const (
	CodeNotConfigured         = 1
	CodeNoPermissions         = 2
	CodeNotFound              = 3
	CodeNoAccount             = 3
	CodeInvalidAmount         = 3
	CodeRoleAlreadyExists     = 3
	CodeSignatoryMustNotExist = 3
	CodeMustNotExist          = 4
	CodeInvalidAssetAmount    = 4
	CodeIncorrectOldValue     = 4
	CodePeersCountNotEnough   = 4
	CodeNoSignatory           = 4
	CodeCountNotEnough        = 5
	CodeNotEnoughAssets       = 6
	CodeIncorrectBalance      = 7
	CodeOperationFailed       = 16
	CodePermissionAlreadySet  = 1007
	CodePublicKeyEmpty        = 1008
	CodeInvalidFieldSize      = 1009
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// Error is a numbered engine error. Expected failure conditions
// (missing entities, permission denials, integrity violations) are all
// reported this way; only storage I/O failures take a different path
// (StoreError).
type Error struct {
	Code        int
	Description string
}

func (e *Error) Error() string {
	return e.Description
}

func errorf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// ErrorCodeIs reports whether err is an engine Error carrying the given
// code.
func ErrorCodeIs(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StoreError wraps a failure of the underlying key-value engine. It is
// deliberately a different type from Error: a storage failure aborts
// the whole block application rather than rejecting one command, and
// conflict flavors of it are retryable.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreFailure reports whether err originates from the storage
// engine rather than from command/query semantics.
func IsStoreFailure(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// QueryErrorType enumerates the failure classes a query can report.
type QueryErrorType int

const (
	QueryErrStatefulFailed QueryErrorType = iota
	QueryErrStatelessFailed
	QueryErrNoAccount
	QueryErrNoAccountAssets
	QueryErrNoAccountDetail
	QueryErrNoSignatories
	QueryErrNotSupported
	QueryErrNoAsset
	QueryErrNoRoles
)

var queryErrorTypeStrings = map[QueryErrorType]string{
	QueryErrStatefulFailed:  "StatefulFailed",
	QueryErrStatelessFailed: "StatelessFailed",
	QueryErrNoAccount:       "NoAccount",
	QueryErrNoAccountAssets: "NoAccountAssets",
	QueryErrNoAccountDetail: "NoAccountDetail",
	QueryErrNoSignatories:   "NoSignatories",
	QueryErrNotSupported:    "NotSupported",
	QueryErrNoAsset:         "NoAsset",
	QueryErrNoRoles:         "NoRoles",
}

func (t QueryErrorType) String() string {
	if s := queryErrorTypeStrings[t]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown QueryErrorType (%d)", int(t))
}

// QueryError is the typed failure a query returns instead of a
// response.
type QueryError struct {
	Type    QueryErrorType
	Code    int
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func queryErrorf(t QueryErrorType, code int, format string, args ...interface{}) *QueryError {
	return &QueryError{Type: t, Code: code, Message: fmt.Sprintf(format, args...)}
}

// QueryErrorIs reports whether err is a QueryError of the given type.
func QueryErrorIs(err error, t QueryErrorType) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Type == t
	}
	return false
}
