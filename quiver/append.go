package quiver

import (
	"fmt"
	"os"
	"strings"
)

// Append adds a record at the end of the archive.
// Lines that don't end with '\n' get one. score is optional raw score
// string e.g. "rmsd=1.2|plddt=88.1", "" means no QV_SCORE line.
// The index is updated only after the record is written and synced.
func (a *Archive) Append(tag string, lines []string, score string) error {
	if err := a.requireMode("append", ModeWrite); err != nil {
		return err
	}
	if !isValidToken(tag) {
		return &Error{Op: "append", Path: a.path, Tag: tag, Err: ErrInvalidArgument, Detail: "tag must be non-empty and can't contain whitespace"}
	}
	if score != "" && !isValidToken(score) {
		return &Error{Op: "append", Path: a.path, Tag: tag, Err: ErrInvalidArgument, Detail: "score can't contain whitespace"}
	}
	if a.Has(tag) {
		return &Error{Op: "append", Path: a.path, Tag: tag, Err: ErrDuplicateTag}
	}
	for i, line := range lines {
		if detail := checkPayloadLine(line); detail != "" {
			return &Error{Op: "append", Path: a.path, Tag: tag, Err: ErrInvalidArgument, Detail: fmt.Sprintf("line %d %s", i+1, detail)}
		}
	}

	var sb strings.Builder
	// don't glue QV_TAG to the last line of a file that wasn't terminated
	separator := !a.endsWithNewline
	if separator {
		sb.WriteByte('\n')
	}
	recStart := sb.Len()
	sb.WriteString(tagLine(tag))
	if score != "" {
		sb.WriteString(scoreLine(tag, score))
	}
	for _, line := range lines {
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	d := sb.String()

	offset, err := appendToFile(a.path, d)
	if err != nil {
		return err
	}

	if separator && len(a.entries) > 0 {
		a.entries[len(a.entries)-1].Size++
	}
	e := Entry{
		Tag:    tag,
		Offset: offset + int64(recStart),
		Size:   int64(len(d) - recStart),
		Score:  score,
	}
	a.addEntry(e)
	a.endsWithNewline = true
	return nil
}

// checkPayloadLine returns why line can't be a payload line, "" if it can.
// A payload line that looks like a tag or score line would be parsed as one
// when the archive is read.
func checkPayloadLine(line string) string {
	if idx := strings.IndexByte(line, '\n'); idx >= 0 && idx != len(line)-1 {
		return "has an embedded newline"
	}
	if isTagLine([]byte(line)) {
		return "is a QV_TAG line"
	}
	if isScoreLine([]byte(line)) {
		return "is a QV_SCORE line"
	}
	return ""
}

// returns offset at which the data was written
func appendToFile(path string, d string) (int64, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, err
	}
	offset := st.Size()
	_, err = file.WriteString(d)
	if err != nil {
		file.Close()
		return 0, err
	}
	err = file.Sync()
	if err != nil {
		file.Close()
		return 0, err
	}
	return offset, file.Close()
}
