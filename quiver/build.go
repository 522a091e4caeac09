package quiver

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/carlmjohnson/requests"
	"github.com/kjk/qvtools/u"
)

func isURL(src string) bool {
	return strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://")
}

// TagFromPath derives a tag from file name, without directory,
// compression extension and extension e.g. dir/1abc.pdb.gz => 1abc.
// For URLs it uses the last element of URL path.
func TagFromPath(src string) string {
	name := filepath.Base(src)
	if isURL(src) {
		if uri, err := url.Parse(src); err == nil {
			name = path.Base(uri.Path)
		}
	}
	name = u.TrimCompressionExt(name)
	return u.TrimExt(name)
}

// lastByteWriter remembers last byte written
type lastByteWriter struct {
	w    io.Writer
	n    int64
	last byte
}

func (w *lastByteWriter) Write(d []byte) (int, error) {
	n, err := w.w.Write(d)
	if n > 0 {
		w.n += int64(n)
		w.last = d[n-1]
	}
	return n, err
}

func openSource(ctx context.Context, src string) (io.ReadCloser, error) {
	if !isURL(src) {
		return u.OpenFileMaybeCompressed(src)
	}
	var buf bytes.Buffer
	err := requests.
		URL(src).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	uri, err := url.Parse(src)
	if err != nil {
		return nil, err
	}
	return u.NewDecompressingReader(&buf, u.CompressionExt(uri.Path))
}

// WriteFromSources writes archive text made from srcs to w.
// A source is a path to a file (optionally compressed) or http(s) URL.
// Tag of each record is TagFromPath(src), payload is content of the source.
// Doesn't check if tags are unique.
func WriteFromSources(ctx context.Context, w io.Writer, srcs []string) error {
	for _, src := range srcs {
		tag := TagFromPath(src)
		if !isValidToken(tag) {
			return &Error{Op: "build", Path: src, Tag: tag, Err: ErrInvalidArgument, Detail: "can't derive a tag from file name"}
		}
		if _, err := io.WriteString(w, tagLine(tag)); err != nil {
			return err
		}
		r, err := openSource(ctx, src)
		if err != nil {
			return err
		}
		lw := &lastByteWriter{w: w}
		_, err = io.Copy(lw, r)
		r.Close()
		if err != nil {
			return err
		}
		// next QV_TAG must start on its own line
		if lw.n > 0 && lw.last != '\n' {
			if _, err = io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildFromSources is like WriteFromSources but returns the archive text
func BuildFromSources(ctx context.Context, srcs []string) (string, error) {
	var sb strings.Builder
	if err := WriteFromSources(ctx, &sb, srcs); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// BuildFromFiles returns archive text with one record per file.
// Tag is file name without extension, payload is file content.
func BuildFromFiles(paths []string) (string, error) {
	return BuildFromSources(context.Background(), paths)
}
