package quiver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kjk/qvtools/atomicfile"
	"github.com/kjk/qvtools/u"
)

// readFilePart reads a specific portion of a file
func readFilePart(path string, offset int64, size int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, size)
	n, err := file.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		if err == io.EOF {
			return nil, fmt.Errorf("reached end of file after reading %d bytes, expected %d", n, size)
		}
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", size, offset, err)
	}
	return buf, nil
}

// payloadLines returns record lines without QV_TAG and QV_SCORE lines
// each line ends with "\n"
func payloadLines(rec []byte) []string {
	var res []string
	for len(rec) > 0 {
		var line []byte
		idx := bytes.IndexByte(rec, '\n')
		if idx == -1 {
			line, rec = rec, nil
		} else {
			line, rec = rec[:idx+1], rec[idx+1:]
		}
		if isTagLine(line) || isScoreLine(line) {
			continue
		}
		res = append(res, string(trimEOL(line))+"\n")
	}
	return res
}

// Read returns payload lines of a record (without QV_TAG and QV_SCORE lines).
// Each line ends with "\n".
func (a *Archive) Read(tag string) ([]string, error) {
	if err := a.requireMode("read", ModeRead); err != nil {
		return nil, err
	}
	e, ok := a.Lookup(tag)
	if !ok {
		return nil, &Error{Op: "read", Path: a.path, Tag: tag, Err: ErrTagNotFound}
	}
	rec, err := readFilePart(a.path, e.Offset, e.Size)
	if err == nil && isTagLine(rec) && parseTagLine(firstLine(rec)) == tag {
		return payloadLines(rec), nil
	}
	// the file changed since we indexed it
	return a.readScan(tag)
}

func firstLine(d []byte) []byte {
	if idx := bytes.IndexByte(d, '\n'); idx >= 0 {
		return d[:idx+1]
	}
	return d
}

// readScan finds the record with a forward scan of the whole file
func (a *Archive) readScan(tag string) ([]string, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var res []string
	found := false
	lr := newLineReader(f)
	for lr.Next() {
		line := lr.Line
		if isTagLine(line) {
			if found {
				break
			}
			found = parseTagLine(line) == tag
			continue
		}
		if found && !isScoreLine(line) {
			res = append(res, string(trimEOL(line))+"\n")
		}
	}
	if err = lr.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, &Error{Op: "read", Path: a.path, Tag: tag, Err: ErrTagNotFound}
	}
	return res, nil
}

// ReadSubset returns complete records (QV_TAG, QV_SCORE and payload lines)
// for tags, as archive text, and the tags that were found, in file order.
// Tags that are not in the archive are not an error, see MissingTags.
func (a *Archive) ReadSubset(tags []string) (string, []string, error) {
	if err := a.requireMode("read subset", ModeRead); err != nil {
		return "", nil, err
	}
	want := map[string]bool{}
	for _, tag := range tags {
		want[tag] = true
	}

	f, err := os.Open(a.path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var sb strings.Builder
	var found []string
	active := false
	lr := newLineReader(f)
	for lr.Next() {
		line := lr.Line
		if isTagLine(line) {
			tag := parseTagLine(line)
			active = want[tag]
			if active {
				found = append(found, tag)
			}
		}
		if active {
			sb.Write(line)
			if !endsWithNewline(line) {
				sb.WriteByte('\n')
			}
		}
	}
	if err = lr.Err(); err != nil {
		return "", nil, err
	}
	return sb.String(), found, nil
}

// MissingTags returns tags from requested that are not in found,
// in the order of requested
func MissingTags(requested []string, found []string) []string {
	seen := map[string]bool{}
	for _, tag := range found {
		seen[tag] = true
	}
	var res []string
	for _, tag := range requested {
		if !seen[tag] {
			res = append(res, tag)
			// report duplicates in requested once
			seen[tag] = true
		}
	}
	return res
}

// ExtractResult lists paths written and skipped by ExtractAll
type ExtractResult struct {
	Extracted []string
	// Skipped are files that already existed
	Skipped []string
}

// ExtractAll writes payload of every record to <outDir>/<tag><ext>.
// Existing files are not over-written, they're reported in Skipped.
func (a *Archive) ExtractAll(outDir string, ext string) (*ExtractResult, error) {
	if err := a.requireMode("extract", ModeRead); err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	res := &ExtractResult{}
	for _, e := range a.entries {
		if strings.ContainsAny(e.Tag, `/\`) || e.Tag == "." || e.Tag == ".." {
			return res, &Error{Op: "extract", Path: a.path, Tag: e.Tag, Err: ErrInvalidArgument, Detail: "tag is not a valid file name"}
		}
		path := filepath.Join(outDir, e.Tag+ext)
		if u.PathExists(path) {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		lines, err := a.Read(e.Tag)
		if err != nil {
			return res, err
		}
		if err = writeLinesAtomically(path, lines); err != nil {
			return res, err
		}
		res.Extracted = append(res.Extracted, path)
	}
	return res, nil
}

func writeLinesAtomically(path string, lines []string) error {
	f, err := atomicfile.New(path)
	if err != nil {
		return err
	}
	defer f.RemoveIfNotClosed()
	for _, line := range lines {
		if _, err = f.WriteString(line); err != nil {
			return err
		}
	}
	return f.Close()
}
