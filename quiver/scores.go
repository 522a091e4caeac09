package quiver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kjk/qvtools/atomicfile"
)

// NaN is written in score table for scores missing in a record
const NaN = "NaN"

// KV is a single score
type KV struct {
	Key string
	// Value is validated to be a decimal number but kept as text
	Value string
}

// ScoreRecord is scores from one QV_SCORE line
type ScoreRecord struct {
	Tag    string
	Scores []KV
}

// Get returns value for a given key
func (r *ScoreRecord) Get(key string) (string, bool) {
	for _, kv := range r.Scores {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set sets a value for a given key. Returns true if new value was added,
// false value was updated
func (r *ScoreRecord) Set(k, v string) bool {
	for i, kv := range r.Scores {
		if kv.Key == k {
			r.Scores[i].Value = v
			return false
		}
	}
	r.Scores = append(r.Scores, KV{Key: k, Value: v})
	return true
}

// ScoreTable is a sparse table of scores of all records in the archive
type ScoreTable struct {
	// Keys is union of keys of all records, in the order they were first seen
	Keys    []string
	Records []*ScoreRecord
	// Warnings are malformed score entries that were skipped.
	// Each is *Error wrapping ErrMalformedScoreValue.
	Warnings []error
}

// ScoreFilePath returns path of score table for archive at path
// e.g. designs.qv => designs.sc
func ScoreFilePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".sc"
}

// ParseScores reads all QV_SCORE lines.
// Returns ErrEmptyResult if there are none.
func ParseScores(r io.Reader) (*ScoreTable, error) {
	res := &ScoreTable{}
	seenKeys := map[string]bool{}
	lr := newLineReader(r)
	for lr.Next() {
		line := lr.Line
		if !isScoreLine(line) {
			continue
		}
		tag, scores, ok := parseScoreLine(line)
		if !ok {
			continue
		}
		rec := &ScoreRecord{Tag: tag}
		for _, entry := range strings.Split(scores, "|") {
			if entry == "" {
				continue
			}
			k, v, err := parseScoreEntry(entry)
			if err != nil {
				res.Warnings = append(res.Warnings, &Error{Op: "scores", Tag: tag, Line: lr.LineNo, Err: ErrMalformedScoreValue, Detail: err.Error()})
				continue
			}
			rec.Set(k, v)
			if !seenKeys[k] {
				seenKeys[k] = true
				res.Keys = append(res.Keys, k)
			}
		}
		res.Records = append(res.Records, rec)
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, &Error{Op: "scores", Err: ErrEmptyResult}
	}
	return res, nil
}

func parseScoreEntry(entry string) (string, string, error) {
	parts := strings.Split(entry, "=")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("'%s' is not in key=value format", entry)
	}
	k, v := parts[0], parts[1]
	if k == "tag" {
		return "", "", fmt.Errorf("'%s': 'tag' is reserved", entry)
	}
	// ParseFloat also accepts hex floats like 0x1p3, those aren't decimal
	if strings.ContainsAny(v, "xX") {
		return "", "", fmt.Errorf("'%s': '%s' is not a decimal number", entry, v)
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return "", "", fmt.Errorf("'%s': '%s' is not a number", entry, v)
	}
	return k, v, nil
}

// WriteDelimited writes the table with a header row "tag" followed by Keys.
// Scores missing in a record are written as NaN.
func (t *ScoreTable) WriteDelimited(w io.Writer, sep string) error {
	var sb strings.Builder
	sb.WriteString("tag")
	for _, k := range t.Keys {
		sb.WriteString(sep)
		sb.WriteString(k)
	}
	sb.WriteByte('\n')
	for _, rec := range t.Records {
		sb.WriteString(rec.Tag)
		for _, k := range t.Keys {
			v, ok := rec.Get(k)
			if !ok {
				v = NaN
			}
			sb.WriteString(sep)
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ExtractScores writes tab-separated score table of archive at path
// to ScoreFilePath(path). Works on any archive, the file isn't opened
// as an Archive.
func ExtractScores(path string) (*ScoreTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tbl, err := ParseScores(f)
	if err != nil {
		if qe, ok := err.(*Error); ok {
			qe.Path = path
		}
		return nil, err
	}
	for _, w := range tbl.Warnings {
		if qe, ok := w.(*Error); ok {
			qe.Path = path
		}
	}

	out, err := atomicfile.New(ScoreFilePath(path))
	if err != nil {
		return nil, err
	}
	defer out.RemoveIfNotClosed()
	if err = tbl.WriteDelimited(out, "\t"); err != nil {
		return nil, err
	}
	if err = out.Close(); err != nil {
		return nil, err
	}
	return tbl, nil
}
