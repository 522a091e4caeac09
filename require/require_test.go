package require

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingT records failures instead of failing the test
type recordingT struct {
	msgs   []string
	failed bool
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.failed = true
}

func TestEqualTextShowsDiff(t *testing.T) {
	rt := &recordingT{}
	EqualText(rt, "QV_TAG a\nATOM 1\n", "QV_TAG b\nATOM 1\n", "rename %s", "a.qv")
	if !rt.failed {
		t.Fatalf("expected failure")
	}
	msg := strings.Join(rt.msgs, "\n")
	if !strings.Contains(msg, "-QV_TAG a") || !strings.Contains(msg, "+QV_TAG b") {
		t.Fatalf("expected unified diff, got:\n%s", msg)
	}
	if !strings.Contains(msg, "(rename a.qv)") {
		t.Fatalf("expected message, got:\n%s", msg)
	}

	rt = &recordingT{}
	EqualText(rt, "same\n", "same\n")
	if rt.failed {
		t.Fatalf("didn't expect failure")
	}
}

func TestErrorIs(t *testing.T) {
	errBase := errors.New("base")
	wrapped := fmt.Errorf("wrapped: %w", errBase)

	rt := &recordingT{}
	ErrorIs(rt, wrapped, errBase)
	if rt.failed {
		t.Fatalf("didn't expect failure")
	}
	ErrorIs(rt, errors.New("other"), errBase)
	if !rt.failed {
		t.Fatalf("expected failure")
	}
}

func TestEqual(t *testing.T) {
	rt := &recordingT{}
	Equal(rt, []string{"a"}, []string{"a"})
	if rt.failed {
		t.Fatalf("didn't expect failure")
	}
	Equal(rt, []string{"a"}, []string{"b"})
	if !rt.failed {
		t.Fatalf("expected failure")
	}
}

func TestWrappersFailNow(t *testing.T) {
	failing := map[string]func(TestingT){
		"Len":      func(t TestingT) { Len(t, []int{1}, 2) },
		"Nil":      func(t TestingT) { Nil(t, errors.New("e")) },
		"NoError":  func(t TestingT) { NoError(t, errors.New("e")) },
		"Error":    func(t TestingT) { Error(t, nil) },
		"NotEqual": func(t TestingT) { NotEqual(t, 1, 1) },
		"NotNil":   func(t TestingT) { NotNil(t, nil) },
		"True":     func(t TestingT) { True(t, false) },
		"False":    func(t TestingT) { False(t, true) },
	}
	for name, fn := range failing {
		rt := &recordingT{}
		fn(rt)
		if !rt.failed {
			t.Fatalf("%s: expected failure", name)
		}
	}

	rt := &recordingT{}
	Len(rt, []int{1}, 1)
	Nil(rt, nil)
	NoError(rt, nil)
	Error(rt, errors.New("e"))
	NotEqual(rt, 1, 2)
	NotNil(rt, 1)
	True(rt, true)
	False(rt, false)
	if rt.failed {
		t.Fatalf("didn't expect failure: %v", rt.msgs)
	}
}
