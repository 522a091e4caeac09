package quiver

import (
	"os"

	"github.com/kjk/qvtools/atomicfile"
)

// RenameTags replaces tags of all records with newTags, positionally.
// QV_SCORE lines that directly follow QV_TAG get the new tag, their scores
// are preserved. Payload is not changed.
//
// The new content is written to a temporary file which replaces the archive
// only if everything succeeded. On ErrTagCountMismatch, ErrConsecutiveTagLines
// or any other error the archive is left as it was.
func RenameTags(path string, newTags []string) error {
	a, err := Open(path, ModeRead)
	if err != nil {
		return err
	}
	if len(newTags) != a.Size() {
		return &Error{Op: "rename", Path: path, Err: ErrTagCountMismatch, Expected: a.Size(), Actual: len(newTags)}
	}
	seen := map[string]bool{}
	for _, tag := range newTags {
		if !isValidToken(tag) {
			return &Error{Op: "rename", Path: path, Tag: tag, Err: ErrInvalidArgument, Detail: "tag must be non-empty and can't contain whitespace"}
		}
		if seen[tag] {
			return &Error{Op: "rename", Path: path, Tag: tag, Err: ErrDuplicateTag}
		}
		seen[tag] = true
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := atomicfile.New(path)
	if err != nil {
		return err
	}
	defer dst.RemoveIfNotClosed()

	write := func(s string) {
		if err == nil {
			_, err = dst.WriteString(s)
		}
	}

	tagIdx := 0
	prevWasTag := false
	lr := newLineReader(src)
	for lr.Next() && err == nil {
		line := lr.Line
		if isTagLine(line) {
			if prevWasTag {
				rerr := &Error{Op: "rename", Path: path, Tag: parseTagLine(line), Line: lr.LineNo, Err: ErrConsecutiveTagLines}
				dst.Abort(rerr)
				return rerr
			}
			if tagIdx >= len(newTags) {
				// the file grew since we counted tags
				rerr := &Error{Op: "rename", Path: path, Err: ErrTagCountMismatch, Expected: tagIdx + 1, Actual: len(newTags)}
				dst.Abort(rerr)
				return rerr
			}
			write(tagLine(newTags[tagIdx]))
			tagIdx++
			prevWasTag = true
			continue
		}
		if prevWasTag && isScoreLine(line) {
			if renamed, ok := replaceScoreTag(line, newTags[tagIdx-1]); ok {
				write(renamed)
				if !endsWithNewline(line) {
					write("\n")
				}
				prevWasTag = false
				continue
			}
		}
		prevWasTag = false
		write(string(line))
		if !endsWithNewline(line) {
			write("\n")
		}
	}
	if err != nil {
		return err
	}
	if err = lr.Err(); err != nil {
		return err
	}
	return dst.Close()
}

// replaceScoreTag returns QV_SCORE line with its tag replaced by newTag.
// The rest of the line is kept as is. ok is false if there's no tag.
func replaceScoreTag(line []byte, newTag string) (string, bool) {
	rest := line[len(scorePrefix):]
	start := 0
	for start < len(rest) && isSpace(rest[start]) {
		start++
	}
	end := start
	for end < len(rest) && !isSpace(rest[end]) {
		end++
	}
	if start == end {
		return "", false
	}
	return scorePrefix + string(rest[:start]) + newTag + string(rest[end:]), true
}
