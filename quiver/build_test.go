package quiver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kjk/qvtools/require"
	"github.com/kjk/qvtools/u"
)

func fileExists(path string) bool {
	return u.FileExists(path)
}

func TestTagFromPath(t *testing.T) {
	tests := []struct {
		src string
		exp string
	}{
		{"foo.pdb", "foo"},
		{"dir/sub/foo.pdb", "foo"},
		{"foo.pdb.gz", "foo"},
		{"foo.pdb.zst", "foo"},
		{"foo", "foo"},
		{"a.b.pdb", "a.b"},
		{"https://files.rcsb.org/download/1ABC.pdb", "1ABC"},
		{"https://example.com/x/2xyz.pdb.gz?raw=1", "2xyz"},
	}
	for _, test := range tests {
		require.Equal(t, test.exp, TagFromPath(test.src), "src: %s", test.src)
	}
}

func TestBuildFromFiles(t *testing.T) {
	dir := t.TempDir()
	foo := filepath.Join(dir, "foo.pdb")
	writeFile(t, foo, "ATOM 1 ...\n")
	bar := filepath.Join(dir, "bar.pdb")
	writeFile(t, bar, "ATOM 2\nATOM 3")
	empty := filepath.Join(dir, "empty.pdb")
	writeFile(t, empty, "")

	s, err := BuildFromFiles([]string{foo})
	require.NoError(t, err)
	require.EqualText(t, "QV_TAG foo\nATOM 1 ...\n", s)

	s, err = BuildFromFiles([]string{foo, bar, empty, foo})
	require.NoError(t, err)
	exp := "QV_TAG foo\nATOM 1 ...\nQV_TAG bar\nATOM 2\nATOM 3\nQV_TAG empty\nQV_TAG foo\nATOM 1 ...\n"
	require.EqualText(t, exp, s)

	_, err = BuildFromFiles([]string{filepath.Join(dir, "missing.pdb")})
	require.True(t, os.IsNotExist(err))
}

func TestBuildFromCompressedFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.pdb")
	writeFile(t, src, "ATOM 1\n")
	var paths []string
	for _, ext := range []string{".gz", ".zst", ".br"} {
		dst := filepath.Join(dir, "c"+ext[1:]+".pdb"+ext)
		err := u.CompressFile(dst, src)
		require.NoError(t, err)
		paths = append(paths, dst)
	}
	s, err := BuildFromFiles(paths)
	require.NoError(t, err)
	require.EqualText(t, "QV_TAG cgz\nATOM 1\nQV_TAG czst\nATOM 1\nQV_TAG cbr\nATOM 1\n", s)
}

func TestBuildFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/1abc.pdb" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("HEADER 1abc\nATOM 1"))
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := BuildFromSources(ctx, []string{srv.URL + "/download/1abc.pdb"})
	require.NoError(t, err)
	require.EqualText(t, "QV_TAG 1abc\nHEADER 1abc\nATOM 1\n", s)

	_, err = BuildFromSources(ctx, []string{srv.URL + "/download/missing.pdb"})
	require.Error(t, err)
}

func TestBuildThenOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(dir, name+".pdb"), "ATOM "+name+"\n")
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdb"))
	require.NoError(t, err)
	s, err := BuildFromFiles(paths)
	require.NoError(t, err)

	path := filepath.Join(dir, "all.qv")
	writeFile(t, path, s)
	qv, err := Open(path, ModeRead)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, qv.Tags())
	lines, err := qv.Read("b")
	require.NoError(t, err)
	require.Equal(t, []string{"ATOM b\n"}, lines)
}
