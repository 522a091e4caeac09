package quiver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kjk/qvtools/atomicfile"
)

// ChunkPath returns path of i-th chunk file written by Split
func ChunkPath(outDir string, prefix string, i int) string {
	return filepath.Join(outDir, fmt.Sprintf("%s_%d.qv", prefix, i))
}

// Split copies records into files of n records each, named
// {prefix}_{i}.qv in outDir (created if needed), i starting at 0.
// Last file can have less than n records. Returns paths of written files.
// The archive is not modified.
func (a *Archive) Split(n int, outDir string, prefix string) ([]string, error) {
	if err := a.requireMode("split", ModeRead); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &Error{Op: "split", Path: a.path, Err: ErrInvalidArgument, Detail: fmt.Sprintf("records per file must be >= 1, got %d", n)}
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	src, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var paths []string
	var out *atomicfile.File
	// if we fail mid-way, the chunk we're writing is not created
	defer func() {
		out.RemoveIfNotClosed()
	}()

	nTags := 0
	lr := newLineReader(src)
	for lr.Next() {
		line := lr.Line
		if isTagLine(line) {
			if nTags%n == 0 {
				if out != nil {
					if err = out.Close(); err != nil {
						return paths, err
					}
					paths = append(paths, out.Path())
				}
				out, err = atomicfile.New(ChunkPath(outDir, prefix, len(paths)))
				if err != nil {
					return paths, err
				}
			}
			nTags++
		}
		// lines before the first QV_TAG don't belong to any record
		if out == nil {
			continue
		}
		if _, err = out.Write(line); err != nil {
			return paths, err
		}
		if !endsWithNewline(line) {
			if _, err = out.WriteString("\n"); err != nil {
				return paths, err
			}
		}
	}
	if err = lr.Err(); err != nil {
		return paths, err
	}
	if out != nil {
		if err = out.Close(); err != nil {
			return paths, err
		}
		paths = append(paths, out.Path())
	}
	return paths, nil
}
