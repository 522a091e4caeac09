package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func assertFileExists(t *testing.T, path string) {
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file '%s' doesn't exist, os.Stat() failed with '%s'", path, err)
	}
	if !st.Mode().IsRegular() {
		t.Fatalf("Path '%s' exists but is not a file (mode: %d)", path, int(st.Mode()))
	}
}

func assertFileNotExists(t *testing.T, path string) {
	_, err := os.Stat(path)
	if err == nil {
		t.Fatalf("file '%s' exist, expected to not exist", path)
	}
}

func assertNoError(t *testing.T, err error) {
	if err != nil {
		t.Fatalf("error: %s", err)
	}
}

func assertError(t *testing.T, err error) {
	if err == nil {
		t.Fatal("expected to get an error")
	}
}

func assertFileContent(t *testing.T, path string, exp string) {
	d, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile('%s') failed with '%s'", path, err)
	}
	if string(d) != exp {
		t.Fatalf("path: '%s', expected content: %q, got: %q", path, exp, string(d))
	}
}

const testArchive = "QV_TAG a\nATOM 1\nQV_TAG b\nATOM 2\n"

func TestSimulateError(t *testing.T) {
	// test cleanup after write
	dst := filepath.Join(t.TempDir(), "a.qv")
	f, err := New(dst)
	assertNoError(t, err)
	assertFileExists(t, f.tmpPath)
	_, err = f.Write([]byte("foo"))
	assertNoError(t, err)
	// simulate an error
	errSimulated := errors.New("simiulated")
	f.err = errSimulated
	err = f.Close()
	if err != errSimulated {
		t.Fatalf("got unexpected error")
	}
	assertFileNotExists(t, f.tmpPath)
	assertFileNotExists(t, dst)
	// on second Close() should get the same error
	err = f.Close()
	if err != errSimulated {
		t.Fatalf("got unexpected error")
	}
}

func writeWithPanicClose(t *testing.T, f *File) {
	defer f.Close()

	_, err := f.Write([]byte("foo"))
	assertNoError(t, err)
	panic("simulating a crash")
}

func recoverWritePanic(t *testing.T, f *File) {
	defer func() {
		err := recover()
		if err == nil {
			t.Fatalf("expected to panic")
		}
	}()

	writeWithPanicClose(t, f)
}

func TestWriteWithPanic(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.qv")
	f, err := New(dst)
	assertNoError(t, err)
	assertFileExists(t, f.tmpPath)
	recoverWritePanic(t, f)
	assertFileExists(t, dst)
}

func writeWithPanicCancel(t *testing.T, f *File) {
	defer f.RemoveIfNotClosed()

	_, err := f.Write([]byte("foo"))
	assertNoError(t, err)
	panic("simulating a crash")
}

func recoverCancelPanic(t *testing.T, f *File) {
	defer func() {
		err := recover()
		if err == nil {
			t.Fatalf("expected to panic")
		}
	}()

	writeWithPanicCancel(t, f)
}

func TestCancel(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.qv")
	f, err := New(dst)
	assertNoError(t, err)
	assertFileExists(t, f.tmpPath)
	recoverCancelPanic(t, f)
	assertFileNotExists(t, f.tmpPath)
	assertFileNotExists(t, dst)
}

func TestAbortKeepsOriginal(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.qv")
	err := os.WriteFile(dst, []byte(testArchive), 0640)
	assertNoError(t, err)

	f, err := New(dst)
	assertNoError(t, err)
	_, err = f.WriteString("QV_TAG renamed\n")
	assertNoError(t, err)
	errCorrupt := errors.New("two QV_TAG lines in a row")
	f.Abort(errCorrupt)
	assertFileNotExists(t, f.tmpPath)
	assertFileContent(t, dst, testArchive)

	_, err = f.WriteString("more")
	if err != errCorrupt {
		t.Fatalf("expected err to be %v, got %v", errCorrupt, err)
	}
	if err = f.Close(); err != errCorrupt {
		t.Fatalf("expected err to be %v, got %v", errCorrupt, err)
	}
}

func TestReplacePreservesMode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.qv")
	err := os.WriteFile(dst, []byte(testArchive), 0640)
	assertNoError(t, err)
	// WriteFile doesn't change mode of existing files and umask may apply
	assertNoError(t, os.Chmod(dst, 0640))

	f, err := New(dst)
	assertNoError(t, err)
	_, err = f.WriteString("QV_TAG x\n")
	assertNoError(t, err)
	assertNoError(t, f.Close())
	assertFileContent(t, dst, "QV_TAG x\n")

	st, err := os.Stat(dst)
	assertNoError(t, err)
	if st.Mode().Perm() != 0640 {
		t.Fatalf("expected mode 0640, got %o", st.Mode().Perm())
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "a.qv")
	{
		f, err := New(dst)
		assertNoError(t, err)
		assertFileExists(t, f.tmpPath)
		_ = f.Close()
		assertFileExists(t, dst)
		assertFileContent(t, dst, "")
		assertFileNotExists(t, f.tmpPath)
	}

	{
		f, err := New(dst)
		assertNoError(t, err)
		assertFileExists(t, f.tmpPath)
		n, err := f.Write([]byte(testArchive))
		assertNoError(t, err)
		if n != len(testArchive) {
			t.Fatalf("expected: %d, got: %d", len(testArchive), n)
		}
		assertFileExists(t, f.tmpPath)
		err = f.Close()
		assertNoError(t, err)
		assertFileNotExists(t, f.tmpPath)
		assertFileContent(t, dst, testArchive)
		// calling Close twice is a no-op
		err = f.Close()
		assertNoError(t, err)
	}
	_ = os.Remove(dst)

	{
		// check that Cancel sets an error state
		f, err := New(dst)
		assertNoError(t, err)
		f.RemoveIfNotClosed()
		_, err = f.Write([]byte(testArchive))
		if err != ErrCancelled {
			t.Fatalf("expected err to be %v, got %v", ErrCancelled, err)
		}
		err = f.Close()
		if err != ErrCancelled {
			t.Fatalf("expected err to be %v, got %v", ErrCancelled, err)
		}
		assertFileNotExists(t, dst)
	}

	// we can't create files in directories that don't exist
	// so verify we do an early check (no point writing to a file
	// if it couldn't be created at the end)
	dst = filepath.Join(dir, "foo", "bar.qv")
	{
		f, err := New(dst)
		assertError(t, err)
		if f != nil {
			t.Fatalf("expected w to be nil, got %v", f)
		}
	}
}
