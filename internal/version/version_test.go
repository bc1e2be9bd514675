package version

import (
	"strings"
	"testing"
)

func TestInfoMatchesGetters(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("Info() = %q/%q/%q, want non-empty defaults", v, c, d)
	}
	if v != GetVersion() || c != GetCommit() || d != GetDate() {
		t.Error("getters must agree with Info()")
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}
