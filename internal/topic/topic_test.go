package topic

import (
	"errors"
	"net/url"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestAll_CanonicalFirstThenAlternatesInOrder(t *testing.T) {
	tp := New(
		mustURL(t, "https://example.com/books/1"),
		mustURL(t, "https://example.com/users/1/books/1"),
		mustURL(t, "https://example.com/users/2/books/1"),
		mustURL(t, "https://example.com/users/1/books/1"),
	)

	want := []string{
		"https://example.com/books/1",
		"https://example.com/users/1/books/1",
		"https://example.com/users/2/books/1",
		"https://example.com/users/1/books/1",
	}
	if diff := cmp.Diff(want, tp.Strings()); diff != "" {
		t.Fatalf("Strings() mismatch (-want +got):\n%s", diff)
	}
	if got := tp.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
	if got := len(tp.URLs()); got != tp.Len() {
		t.Fatalf("len(URLs()) = %d, want %d", got, tp.Len())
	}
}

func TestAll_IsRestartable(t *testing.T) {
	tp := New(mustURL(t, "https://example.com/a"), mustURL(t, "https://example.com/b"))

	var first, second []string
	for u := range tp.All() {
		first = append(first, u.String())
	}
	for u := range tp.All() {
		second = append(second, u.String())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second iteration differs (-first +second):\n%s", diff)
	}
}

func TestAll_StopsEarly(t *testing.T) {
	tp := New(mustURL(t, "https://example.com/a"), mustURL(t, "https://example.com/b"))

	count := 0
	for range tp.All() {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("iterations = %d, want 1", count)
	}
}

func TestBackward_ReversesAll(t *testing.T) {
	tp := New(
		mustURL(t, "https://example.com/a"),
		mustURL(t, "https://example.com/b"),
		mustURL(t, "https://example.com/c"),
	)

	var back []string
	for u := range tp.Backward() {
		back = append(back, u.String())
	}
	forward := tp.Strings()
	slices.Reverse(forward)
	if diff := cmp.Diff(forward, back); diff != "" {
		t.Fatalf("Backward() mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_NoAlternates(t *testing.T) {
	tp := New(mustURL(t, "https://example.com/books/1"))
	if got := tp.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if got := tp.Alternates(); len(got) != 0 {
		t.Fatalf("Alternates() = %v, want empty", got)
	}
}

func TestNew_IsolatedFromCallerMutation(t *testing.T) {
	canonical := mustURL(t, "https://example.com/books/1")
	tp := New(canonical)

	canonical.Path = "/books/2"
	if got := tp.Canonical().String(); got != "https://example.com/books/1" {
		t.Fatalf("Canonical() = %q after caller mutation", got)
	}

	for u := range tp.All() {
		u.Path = "/mutated"
	}
	if got := tp.Canonical().String(); got != "https://example.com/books/1" {
		t.Fatalf("Canonical() = %q after iterator mutation", got)
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	if _, err := Parse("  "); err == nil {
		t.Fatalf("Parse() expected error for empty canonical URL")
	}
	if _, err := Parse("https://example.com/a", ""); err == nil {
		t.Fatalf("Parse() expected error for empty alternate URL")
	}
}

func TestParse_RejectsRelative(t *testing.T) {
	for _, raw := range []string{"books/1", "/books/1", "not a url", "//example.com/books/1"} {
		if _, err := Parse(raw); !errors.Is(err, ErrNotAbsoluteURL) {
			t.Fatalf("Parse(%q) error = %v, want ErrNotAbsoluteURL", raw, err)
		}
	}
	if _, err := Parse("https://example.com/a", "b"); !errors.Is(err, ErrNotAbsoluteURL) {
		t.Fatalf("Parse() with relative alternate error = %v, want ErrNotAbsoluteURL", err)
	}
}

func TestParse_KeepsOrder(t *testing.T) {
	tp, err := Parse("https://example.com/a", "https://example.com/b")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if diff := cmp.Diff(want, tp.Strings()); diff != "" {
		t.Fatalf("Strings() mismatch (-want +got):\n%s", diff)
	}
}
