package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common error types used across filesystem packages
var (
	ErrAccessDenied  = errors.New("access denied")
	ErrAlreadyExists = errors.New("file already exists")
	ErrNotFound      = errors.New("file not found")
	ErrNotAFile      = errors.New("not a regular file")
	ErrInvalidName   = errors.New("invalid file name")
)

// Kind classifies an OpError.
type Kind int

const (
	KindOther Kind = iota
	KindAccess
	KindAlreadyExists
	KindNotFound
	KindNotAFile
	KindValidation
)

var kindNames = map[Kind]string{
	KindOther:         "other",
	KindAccess:        "access",
	KindAlreadyExists: "already_exists",
	KindNotFound:      "not_found",
	KindNotAFile:      "not_a_file",
	KindValidation:    "validation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindAccess:
		return ErrAccessDenied
	case KindAlreadyExists:
		return ErrAlreadyExists
	case KindNotFound:
		return ErrNotFound
	case KindNotAFile:
		return ErrNotAFile
	case KindValidation:
		return ErrInvalidName
	}
	return nil
}

// OpError records a failed store or validation operation together with the
// file name it was applied to.
type OpError struct {
	Op   string
	Name string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Name != "" {
		fmt.Fprintf(&sb, " %q", e.Name)
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else if s := e.Kind.sentinel(); s != nil {
		sb.WriteString(s.Error())
	} else {
		sb.WriteString("operation failed")
	}
	return sb.String()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind, so callers can
// write errors.Is(err, ErrAccessDenied) regardless of the wrapped cause.
func (e *OpError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewOpError builds an OpError.
func NewOpError(op, name string, kind Kind, err error) *OpError {
	return &OpError{Op: op, Name: name, Kind: kind, Err: err}
}

// KindOf returns the kind of the first OpError in err's chain, or KindOther.
func KindOf(err error) Kind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindOther
}

// ClassifyFSError maps a raw filesystem error to an OpError. Missing entries
// become KindNotFound; everything else the filesystem refuses is an access
// failure.
func ClassifyFSError(op, name string, err error) *OpError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, os.ErrNotExist):
		return NewOpError(op, name, KindNotFound, err)
	case errors.Is(err, os.ErrExist):
		return NewOpError(op, name, KindAlreadyExists, err)
	default:
		return NewOpError(op, name, KindAccess, err)
	}
}
