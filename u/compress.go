package u

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// implement io.ReadCloser over a source wrapped with decompressing io.Reader.
// io.Closer goes to the source, io.Reader goes to wrapping reader
type readerWrapped struct {
	c io.Closer
	r io.Reader
	// zstd decoder must be closed to release its goroutines
	zr *zstd.Decoder
}

func (rc *readerWrapped) Close() error {
	if rc.zr != nil {
		rc.zr.Close()
	}
	if rc.c == nil {
		return nil
	}
	return rc.c.Close()
}

func (rc *readerWrapped) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

// NewDecompressingReader wraps r in a decompressor picked by ext
// (see CompressionExt). For "" it returns r as is.
// Closing the result doesn't close r.
func NewDecompressingReader(r io.Reader, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case "":
		return io.NopCloser(r), nil
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case ".bz2":
		return io.NopCloser(bzip2.NewReader(r)), nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &readerWrapped{r: zr, zr: zr}, nil
	case ".br":
		return io.NopCloser(brotli.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported compression '%s'", ext)
}

// CompressionExt returns the (lower-cased) compression extension of path
// (".gz", ".bz2", ".zst", ".zstd", ".br") or "" if path doesn't look compressed
func CompressionExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".bz2", ".zst", ".zstd", ".br":
		return ext
	}
	return ""
}

// TrimCompressionExt removes compression extension e.g. foo.pdb.gz => foo.pdb
func TrimCompressionExt(path string) string {
	ext := CompressionExt(path)
	if ext == "" {
		return path
	}
	return path[:len(path)-len(ext)]
}

// OpenFileMaybeCompressed opens a file that might be compressed with gzip
// or bzip2 or zstd or brotli
// TODO: could sniff file content instead of checking file extension
func OpenFileMaybeCompressed(path string) (io.ReadCloser, error) {
	ext := CompressionExt(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if ext == "" {
		return f, nil
	}
	r, err := NewDecompressingReader(f, ext)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readerWrapped{c: multiCloser{r, f}, r: r}, nil
}

type multiCloser []io.Closer

func (mc multiCloser) Close() error {
	var err error
	for _, c := range mc {
		if err2 := c.Close(); err == nil {
			err = err2
		}
	}
	return err
}

// ReadFileMaybeCompressed reads file. Decompresses if it's compressed.
func ReadFileMaybeCompressed(path string) ([]byte, error) {
	r, err := OpenFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// NewCompressingWriter returns a writer that compresses with the
// algorithm implied by ext (see CompressionExt). For "" data is written as is.
// Closing the returned writer doesn't close w.
func NewCompressingWriter(w io.Writer, ext string) (io.WriteCloser, error) {
	switch strings.ToLower(ext) {
	case "":
		return nopWriteCloser{w}, nil
	case ".gz":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case ".zst", ".zstd":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case ".br":
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	}
	return nil, fmt.Errorf("unsupported compression '%s'", ext)
}

// CompressFile compresses srcPath and saves as dstPath.
// Compression algorithm is based on extension of dstPath.
func CompressFile(dstPath, srcPath string) error {
	fSrc, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer fSrc.Close()
	fDst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	w, err := NewCompressingWriter(fDst, CompressionExt(dstPath))
	if err == nil {
		_, err = io.Copy(w, fSrc)
		if err2 := w.Close(); err == nil {
			err = err2
		}
	}
	if err2 := fDst.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(dstPath)
	}
	return err
}
