package client

import (
	"net/url"
	"strings"
	"testing"

	"mercure-client/internal/topic"
)

func mustTopic(t *testing.T, canonical string, alternates ...string) topic.Topic {
	t.Helper()
	tp, err := topic.Parse(canonical, alternates...)
	if err != nil {
		t.Fatalf("topic.Parse() error = %v", err)
	}
	return tp
}

func TestEncodeUpdate_PrivateWithAlternate(t *testing.T) {
	got, err := EncodeUpdate(
		mustTopic(t, "https://example.com/books/1", "https://example.com/users/1/books/1"),
		nil,
		Private,
	)
	if err != nil {
		t.Fatalf("EncodeUpdate() error = %v", err)
	}
	want := "topic=https%3A%2F%2Fexample.com%2Fbooks%2F1&topic=https%3A%2F%2Fexample.com%2Fusers%2F1%2Fbooks%2F1&private=on"
	if got != want {
		t.Fatalf("EncodeUpdate() = %q, want %q", got, want)
	}
}

func TestEncodeUpdate_PublicWithoutData(t *testing.T) {
	got, err := EncodeUpdate(mustTopic(t, "https://example.com/books/1"), nil, Public)
	if err != nil {
		t.Fatalf("EncodeUpdate() error = %v", err)
	}
	if want := "topic=https%3A%2F%2Fexample.com%2Fbooks%2F1"; got != want {
		t.Fatalf("EncodeUpdate() = %q, want %q", got, want)
	}
}

func TestEncodeUpdate_DataFollowsTopicsAndPrecedesPrivate(t *testing.T) {
	data := `{"isbn":"9780735218789", "title":"a&b"}`
	got, err := EncodeUpdate(mustTopic(t, "https://example.com/books/1"), &data, Private)
	if err != nil {
		t.Fatalf("EncodeUpdate() error = %v", err)
	}
	want := "topic=https%3A%2F%2Fexample.com%2Fbooks%2F1" +
		"&data=%7B%22isbn%22%3A%229780735218789%22%2C+%22title%22%3A%22a%26b%22%7D" +
		"&private=on"
	if got != want {
		t.Fatalf("EncodeUpdate() = %q, want %q", got, want)
	}

	values, err := url.ParseQuery(got)
	if err != nil {
		t.Fatalf("url.ParseQuery() error = %v", err)
	}
	if values.Get("data") != data {
		t.Fatalf("decoded data = %q, want %q", values.Get("data"), data)
	}
}

func TestEncodeUpdate_EmptyDataIsKept(t *testing.T) {
	empty := ""
	got, err := EncodeUpdate(mustTopic(t, "https://example.com/a"), &empty, Public)
	if err != nil {
		t.Fatalf("EncodeUpdate() error = %v", err)
	}
	if !strings.HasSuffix(got, "&data=") {
		t.Fatalf("EncodeUpdate() = %q, want trailing empty data field", got)
	}
}

func TestEncodeUpdate_PrivateFieldPresence(t *testing.T) {
	tp := mustTopic(t, "https://example.com/a", "https://example.com/b", "https://example.com/a")
	public, _ := EncodeUpdate(tp, nil, Public)
	private, _ := EncodeUpdate(tp, nil, Private)

	if strings.Contains(public, "private") {
		t.Fatalf("public body %q contains private field", public)
	}
	if got := strings.Count(private, "private=on"); got != 1 {
		t.Fatalf("private body %q has %d private fields, want 1", private, got)
	}
	if got := strings.Count(private, "topic="); got != 3 {
		t.Fatalf("private body %q has %d topic fields, want 3", private, got)
	}
}

func TestEncodeUpdate_ZeroTopicFails(t *testing.T) {
	if _, err := EncodeUpdate(topic.Topic{}, nil, Public); err == nil {
		t.Fatalf("EncodeUpdate() expected error for zero topic")
	}
}

func TestFormEscape_WHATWGSet(t *testing.T) {
	if got, want := formEscape("a-b_c.d*e f~g/h"), "a-b_c.d*e+f%7Eg%2Fh"; got != want {
		t.Fatalf("formEscape() = %q, want %q", got, want)
	}
	if got, want := formEscape("é"), "%C3%A9"; got != want {
		t.Fatalf("formEscape() = %q, want %q", got, want)
	}
}
