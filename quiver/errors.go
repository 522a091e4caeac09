package quiver

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// Errors returned by quiver operations, usually wrapped in *Error.
// Match with errors.Is.
var (
	ErrInvalidMode         = errors.New("mode must be read or write")
	ErrWriteModeRequired   = errors.New("archive must be opened in write mode")
	ErrReadModeRequired    = errors.New("archive must be opened in read mode")
	ErrDuplicateTag        = errors.New("tag already exists")
	ErrTagNotFound         = errors.New("tag does not exist")
	ErrTagCountMismatch    = errors.New("number of tags doesn't match")
	ErrConsecutiveTagLines = errors.New("two QV_TAG lines in a row")
	ErrMalformedScoreValue = errors.New("malformed score value")
	ErrEmptyResult         = errors.New("no score lines found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrMalformedLine       = errors.New("malformed line")

	// ErrArchiveNotFound also matches fs.ErrNotExist
	ErrArchiveNotFound = fmt.Errorf("archive doesn't exist: %w", fs.ErrNotExist)
)

// Error describes a failed quiver operation
type Error struct {
	// Op is the operation e.g. "open", "append", "rename"
	Op   string
	Path string
	// Tag is the offending tag, if any
	Tag string
	// Line is 1-based line number in the archive, 0 if not known
	Line int
	// for ErrTagCountMismatch
	Expected int
	Actual   int
	// Detail is additional context e.g. the malformed score entry
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("quiver: ")
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Tag != "" {
		b.WriteString(" (tag '")
		b.WriteString(e.Tag)
		b.WriteString("')")
	}
	if e.Line > 0 {
		b.WriteString(" at line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	if errors.Is(e.Err, ErrTagCountMismatch) {
		fmt.Fprintf(&b, ": archive has %d tags, got %d", e.Expected, e.Actual)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
