package client

import (
	"errors"
	"testing"
)

func TestParseHubURL_RequiresWellKnownPath(t *testing.T) {
	hub, err := ParseHubURL(" https://localhost/.well-known/mercure ")
	if err != nil {
		t.Fatalf("ParseHubURL() error = %v", err)
	}
	if got := hub.String(); got != "https://localhost/.well-known/mercure" {
		t.Fatalf("String() = %q", got)
	}

	invalid := []string{
		"https://localhost/",
		"https://localhost",
		"https://localhost/.well-known/mercure/",
		"https://localhost/hub/.well-known/mercure",
		"/.well-known/mercure",
		"ftp://localhost/.well-known/mercure",
		"https://%zz/.well-known/mercure",
	}
	for _, raw := range invalid {
		if _, err := ParseHubURL(raw); !errors.Is(err, ErrInvalidHubURL) {
			t.Fatalf("ParseHubURL(%q) error = %v, want ErrInvalidHubURL", raw, err)
		}
	}
}

func TestHubURL_URLIsACopy(t *testing.T) {
	hub, err := ParseHubURL("https://localhost/.well-known/mercure")
	if err != nil {
		t.Fatalf("ParseHubURL() error = %v", err)
	}
	u := hub.URL()
	u.Path = "/elsewhere"
	if hub.URL().Path != WellKnownPath {
		t.Fatalf("HubURL mutated through URL()")
	}
	if _, err := NewHubURL(nil); !errors.Is(err, ErrInvalidHubURL) {
		t.Fatalf("NewHubURL(nil) error = %v", err)
	}
}

func TestPrivacy(t *testing.T) {
	if Public.IsPrivate() || !Private.IsPrivate() {
		t.Fatalf("IsPrivate() mismatch")
	}
	if Public.String() != "public" || Private.String() != "private" {
		t.Fatalf("String() = %q/%q", Public, Private)
	}
}
