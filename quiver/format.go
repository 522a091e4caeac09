package quiver

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const (
	tagPrefix   = "QV_TAG"
	scorePrefix = "QV_SCORE"
)

// lineReader reads lines (including '\n') and tracks their
// position so that records can be indexed by offset
type lineReader struct {
	r *bufio.Reader

	// Line is valid until next call to Next()
	Line []byte
	// 1-based number of Line
	LineNo int
	// position of Line within the reader
	CurrPos int64
	// position of the line after Line
	NextPos int64

	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReaderSize(r, 64*1024),
	}
}

// Next reads next line. Returns false at the end or on error,
// check Err() to tell them apart. Last line might not end with '\n'.
func (lr *lineReader) Next() bool {
	if lr.err != nil {
		return false
	}
	lr.CurrPos = lr.NextPos
	line, err := lr.r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		lr.err = err
		return false
	}
	if len(line) == 0 {
		return false
	}
	lr.Line = line
	lr.LineNo++
	lr.NextPos += int64(len(line))
	return true
}

// Err returns error from last Next(). We swallow io.EOF
func (lr *lineReader) Err() error {
	return lr.err
}

// trimEOL removes "\n" or "\r\n" from the end
func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

func endsWithNewline(d []byte) bool {
	n := len(d)
	return n > 0 && d[n-1] == '\n'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// hasKeyword returns true if the first field of line is exactly kw
func hasKeyword(line []byte, kw string) bool {
	if !bytes.HasPrefix(line, []byte(kw)) {
		return false
	}
	return len(line) == len(kw) || isSpace(line[len(kw)])
}

func isTagLine(line []byte) bool {
	return hasKeyword(line, tagPrefix)
}

func isScoreLine(line []byte) bool {
	return hasKeyword(line, scorePrefix)
}

// parseTagLine returns tag from "QV_TAG <tag>" line.
// Returns "" if there's no tag.
func parseTagLine(line []byte) string {
	fields := strings.Fields(string(line[len(tagPrefix):]))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parseScoreLine parses "QV_SCORE <tag> <scores>" line.
// scores is the first whitespace-separated field after the tag,
// anything after it is ignored.
// ok is false if tag or scores is missing.
func parseScoreLine(line []byte) (tag string, scores string, ok bool) {
	fields := strings.Fields(string(line[len(scorePrefix):]))
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// isValidToken returns true if s is non-empty and has no whitespace
func isValidToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return false
		}
	}
	return true
}

func tagLine(tag string) string {
	return tagPrefix + " " + tag + "\n"
}

func scoreLine(tag string, scores string) string {
	return scorePrefix + " " + tag + " " + scores + "\n"
}
