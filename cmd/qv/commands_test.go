package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjk/qvtools/quiver"
	"github.com/kjk/qvtools/require"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func runQv(t *testing.T, stdin string, args ...string) runResult {
	clearEnv(t)
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTestArchive(t *testing.T, dir string) string {
	path := filepath.Join(dir, "designs.qv")
	s := "QV_TAG a\nQV_SCORE a rmsd=1.5|plddt=90\nATOM 1\nQV_TAG b\nATOM 2\nQV_TAG c\nQV_SCORE c rmsd=0.5\nATOM 3\n"
	err := os.WriteFile(path, []byte(s), 0644)
	require.NoError(t, err)
	return path
}

func readTestFile(t *testing.T, path string) string {
	d, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(d)
}

func TestLs(t *testing.T) {
	path := writeTestArchive(t, t.TempDir())
	res := runQv(t, "", "ls", path)
	require.NoError(t, res.err)
	require.Equal(t, "a\nb\nc\n", res.stdout)

	res = runQv(t, "", "ls", "--json", path)
	require.NoError(t, res.err)
	var entries []lsEntry
	err := json.Unmarshal([]byte(res.stdout), &entries)
	require.NoError(t, err)
	require.Equal(t, 3, len(entries))
	require.Equal(t, "rmsd=1.5|plddt=90", entries[0].Score)
	require.Equal(t, int64(0), entries[0].Offset)

	res = runQv(t, "", "ls", filepath.Join(t.TempDir(), "missing.qv"))
	require.ErrorIs(t, res.err, quiver.ErrArchiveNotFound)
}

func TestSlice(t *testing.T) {
	path := writeTestArchive(t, t.TempDir())
	res := runQv(t, "", "slice", path, "c", "a", "x")
	require.NoError(t, res.err)
	require.EqualText(t, "QV_TAG a\nQV_SCORE a rmsd=1.5|plddt=90\nATOM 1\nQV_TAG c\nQV_SCORE c rmsd=0.5\nATOM 3\n", res.stdout)
	require.True(t, strings.Contains(res.stderr, "tag 'x' not found"))

	// tags from stdin
	res = runQv(t, "b\n\n  c ", "slice", path)
	require.NoError(t, res.err)
	require.EqualText(t, "QV_TAG b\nATOM 2\nQV_TAG c\nQV_SCORE c rmsd=0.5\nATOM 3\n", res.stdout)

	res = runQv(t, "  \n", "slice", path)
	require.Error(t, res.err)
}

func TestRename(t *testing.T) {
	path := writeTestArchive(t, t.TempDir())
	res := runQv(t, "x y z\n", "rename", path)
	require.NoError(t, res.err)
	qv, err := quiver.Open(path, quiver.ModeRead)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "z"}, qv.Tags())

	before := readTestFile(t, path)
	res = runQv(t, "", "rename", path, "p", "q")
	require.ErrorIs(t, res.err, quiver.ErrTagCountMismatch)
	require.Equal(t, before, readTestFile(t, path))
}

func TestSplitCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir)
	outDir := filepath.Join(dir, "out")
	res := runQv(t, "", "split", path, "2", "part", outDir)
	require.NoError(t, res.err)
	files, err := filepath.Glob(filepath.Join(outDir, "part_*.qv"))
	require.NoError(t, err)
	require.Equal(t, 2, len(files))

	res = runQv(t, "", "split", path, "0")
	require.Error(t, res.err)
	res = runQv(t, "", "split", path, "abc")
	require.Error(t, res.err)
}

func TestSplitUsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir)
	outDir := filepath.Join(dir, "fromcfg")
	cfgPath := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(cfgPath, []byte("split:\n  prefix: cfg\n  out_dir: "+outDir+"\n"), 0644)
	require.NoError(t, err)

	res := runQv(t, "", "--config", cfgPath, "split", path, "1")
	require.NoError(t, res.err)
	files, err := filepath.Glob(filepath.Join(outDir, "cfg_*.qv"))
	require.NoError(t, err)
	require.Equal(t, 3, len(files))
}

func TestExtractCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeTestArchive(t, dir)
	outDir := filepath.Join(dir, "pdbs")
	res := runQv(t, "", "extract", path, "-o", outDir)
	require.NoError(t, res.err)
	require.Equal(t, "ATOM 1\n", readTestFile(t, filepath.Join(outDir, "a.pdb")))
	require.Equal(t, "ATOM 3\n", readTestFile(t, filepath.Join(outDir, "c.pdb")))

	res = runQv(t, "", "extract", path, "-o", outDir, "--ext", ".txt")
	require.NoError(t, res.err)
	require.Equal(t, "ATOM 2\n", readTestFile(t, filepath.Join(outDir, "b.txt")))

	res = runQv(t, "", "extract", path, "-o", outDir)
	require.NoError(t, res.err)
	require.True(t, strings.Contains(res.stderr, "already exists"))
}

func TestScorefileCmd(t *testing.T) {
	path := writeTestArchive(t, t.TempDir())
	res := runQv(t, "", "scorefile", "--json", path)
	require.NoError(t, res.err)
	require.EqualText(t, "tag\trmsd\tplddt\na\t1.5\t90\nc\t0.5\tNaN\n", readTestFile(t, quiver.ScoreFilePath(path)))

	var rows []scoreRow
	err := json.Unmarshal([]byte(res.stdout), &rows)
	require.NoError(t, err)
	require.Equal(t, 2, len(rows))
	require.Equal(t, "0.5", rows[1].Scores["rmsd"])
}

func TestFromPdbs(t *testing.T) {
	dir := t.TempDir()
	foo := filepath.Join(dir, "foo.pdb")
	err := os.WriteFile(foo, []byte("ATOM 1 ...\n"), 0644)
	require.NoError(t, err)

	res := runQv(t, "", "frompdbs", foo)
	require.NoError(t, res.err)
	require.EqualText(t, "QV_TAG foo\nATOM 1 ...\n", res.stdout)

	out := filepath.Join(dir, "out.qv")
	res = runQv(t, "", "frompdbs", "-o", out, foo)
	require.NoError(t, res.err)
	require.Equal(t, "", res.stdout)
	require.EqualText(t, "QV_TAG foo\nATOM 1 ...\n", readTestFile(t, out))

	res = runQv(t, "", "frompdbs", "-o", filepath.Join(dir, "bad.qv"), filepath.Join(dir, "missing.pdb"))
	require.Error(t, res.err)
	_, err = os.Stat(filepath.Join(dir, "bad.qv"))
	require.True(t, os.IsNotExist(err))
}

func TestPushRequiresRemoteConfig(t *testing.T) {
	path := writeTestArchive(t, t.TempDir())
	res := runQv(t, "", "push", path, "run1")
	require.Error(t, res.err)
	require.True(t, strings.Contains(res.err.Error(), "remote config is missing"))
}

func TestArchivesToPush(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.qv", "a.qv", "notes.txt"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
		require.NoError(t, err)
	}
	paths, err := archivesToPush(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.qv"), filepath.Join(dir, "b.qv")}, paths)

	paths, err = archivesToPush(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Equal(t, 1, len(paths))

	_, err = archivesToPush(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
