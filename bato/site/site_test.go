package site

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()
	if p.Domain != "bato.to" {
		t.Errorf("domain = %q", p.Domain)
	}
	if len(p.SortOrders) != 8 {
		t.Errorf("sort orders = %d, want 8", len(p.SortOrders))
	}
	if p.Markers.ScriptMarker != "const imgHttps =" {
		t.Errorf("script marker = %q", p.Markers.ScriptMarker)
	}
	if !reflect.DeepEqual(p.Domains(), []string{"bato.to", "bato.si"}) {
		t.Errorf("domains = %v", p.Domains())
	}
}

func TestBaseURLScheme(t *testing.T) {
	p := Default()
	if p.BaseURL() != "https://bato.to" {
		t.Errorf("base url = %q", p.BaseURL())
	}

	p.Scheme = "http"
	p.Domain = "127.0.0.1:8080"
	if p.BaseURL() != "http://127.0.0.1:8080" {
		t.Errorf("base url = %q", p.BaseURL())
	}
	if got := p.AbsURL("//cdn.example/x"); got != "http://cdn.example/x" {
		t.Errorf("protocol-relative = %q", got)
	}

	// Zero-value profiles still produce https URLs.
	var zero Profile
	zero.Domain = "bato.to"
	if zero.BaseURL() != "https://bato.to" {
		t.Errorf("zero-scheme base url = %q", zero.BaseURL())
	}
}

func TestAbsURL(t *testing.T) {
	p := Default()
	cases := []struct {
		in   string
		want string
	}{
		{"/series/123", "https://bato.to/series/123"},
		{"series/123", "https://bato.to/series/123"},
		{"https://other.example/x", "https://other.example/x"},
		{"http://other.example/x", "http://other.example/x"},
		{"//cdn.example/cover.jpg", "https://cdn.example/cover.jpg"},
		{"", "https://bato.to"},
	}
	for _, tc := range cases {
		if got := p.AbsURL(tc.in); got != tc.want {
			t.Errorf("AbsURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadOverridesMergeOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := []byte("name: mirror\ndomain: bato.si\nmarkers:\n  script_marker: \"const imgList =\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Domain != "bato.si" {
		t.Errorf("domain = %q", p.Domain)
	}
	if p.Scheme != "https" {
		t.Errorf("scheme = %q, want default", p.Scheme)
	}
	if p.Markers.ScriptMarker != "const imgList =" {
		t.Errorf("script marker = %q", p.Markers.ScriptMarker)
	}
	// Untouched fields keep defaults.
	if p.Markers.PasswordVar != "batoPass" {
		t.Errorf("password var = %q, want default", p.Markers.PasswordVar)
	}
	if len(p.SortOrders) != 8 {
		t.Errorf("sort orders = %d, want defaults kept", len(p.SortOrders))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("domain: [unclosed"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
