package quiver

import (
	"fmt"
	"io"
	"os"
)

// Mode is fixed when the archive is opened
type Mode int

const (
	ModeRead Mode = iota + 1
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "r", "read", "w" or "write"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "r", "read":
		return ModeRead, nil
	case "w", "write":
		return ModeWrite, nil
	}
	return 0, &Error{Op: "open", Err: ErrInvalidMode, Detail: fmt.Sprintf("'%s'", s)}
}

// Entry describes location of a record in the archive file
type Entry struct {
	Tag string
	// Offset of the QV_TAG line
	Offset int64
	// Size of the whole record, including QV_TAG and QV_SCORE lines
	Size int64
	// Score is raw score string from QV_SCORE line that
	// directly follows QV_TAG line, "" if there's none
	Score string
}

// Archive is a handle to a Quiver file opened in read or write mode
type Archive struct {
	path string
	mode Mode

	entries  []Entry
	tagToIdx map[string]int

	// false if last line of the file is not terminated with '\n'
	endsWithNewline bool
}

// Open opens archive at path and indexes its records.
// In ModeWrite a missing file is created on first Append.
// In ModeRead a missing file is an error matching ErrArchiveNotFound.
func Open(path string, mode Mode) (*Archive, error) {
	if mode != ModeRead && mode != ModeWrite {
		return nil, &Error{Op: "open", Path: path, Err: ErrInvalidMode, Detail: mode.String()}
	}
	a := &Archive{
		path:            path,
		mode:            mode,
		tagToIdx:        map[string]int{},
		endsWithNewline: true,
	}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if mode == ModeRead {
			return nil, &Error{Op: "open", Path: path, Err: ErrArchiveNotFound}
		}
		return a, nil
	}
	defer f.Close()
	if err = a.buildIndex(f); err != nil {
		return nil, err
	}
	return a, nil
}

// buildIndex does a single forward scan, recording byte range of each record
func (a *Archive) buildIndex(r io.Reader) error {
	lr := newLineReader(r)
	var curr *Entry
	prevWasTag := false
	finishRecord := func(endPos int64) {
		if curr == nil {
			return
		}
		curr.Size = endPos - curr.Offset
		a.addEntry(*curr)
		curr = nil
	}
	for lr.Next() {
		line := lr.Line
		a.endsWithNewline = endsWithNewline(line)
		if isTagLine(line) {
			finishRecord(lr.CurrPos)
			tag := parseTagLine(line)
			if tag == "" {
				return &Error{Op: "open", Path: a.path, Line: lr.LineNo, Err: ErrMalformedLine, Detail: "QV_TAG without a tag"}
			}
			curr = &Entry{
				Tag:    tag,
				Offset: lr.CurrPos,
			}
			prevWasTag = true
			continue
		}
		if prevWasTag && isScoreLine(line) {
			if _, scores, ok := parseScoreLine(line); ok {
				curr.Score = scores
			}
		}
		prevWasTag = false
	}
	if err := lr.Err(); err != nil {
		return err
	}
	finishRecord(lr.NextPos)
	return nil
}

func (a *Archive) addEntry(e Entry) {
	// for archives that violate uniqueness, lookups find the first record
	if _, ok := a.tagToIdx[e.Tag]; !ok {
		a.tagToIdx[e.Tag] = len(a.entries)
	}
	a.entries = append(a.entries, e)
}

func (a *Archive) Path() string {
	return a.path
}

func (a *Archive) Mode() Mode {
	return a.mode
}

// Tags returns tags in file order. Caller owns the result.
func (a *Archive) Tags() []string {
	res := make([]string, len(a.entries))
	for i, e := range a.entries {
		res[i] = e.Tag
	}
	return res
}

// Size returns number of records
func (a *Archive) Size() int {
	return len(a.entries)
}

// Lookup returns index entry for a tag
func (a *Archive) Lookup(tag string) (Entry, bool) {
	idx, ok := a.tagToIdx[tag]
	if !ok {
		return Entry{}, false
	}
	return a.entries[idx], true
}

// Entries returns a copy of the index in file order
func (a *Archive) Entries() []Entry {
	return append([]Entry{}, a.entries...)
}

// Has returns true if tag is in the archive
func (a *Archive) Has(tag string) bool {
	_, ok := a.tagToIdx[tag]
	return ok
}

func (a *Archive) requireMode(op string, mode Mode) error {
	if a.mode == mode {
		return nil
	}
	err := ErrReadModeRequired
	if mode == ModeWrite {
		err = ErrWriteModeRequired
	}
	return &Error{Op: op, Path: a.path, Err: err}
}
