package sanitize

import "testing"

func TestToSafeFilename_Basics(t *testing.T) {
	got := ToSafeFilename("001:/\\*?\"<>| cover", "jpg")
	if got != "001_ cover.jpg" {
		t.Fatalf("got %q", got)
	}
}

func TestToSafeFilename_Defaults(t *testing.T) {
	got := ToSafeFilename("", "")
	if got != "page.jpg" {
		t.Fatalf("got %q", got)
	}
}

func TestToSafeFilename_Long(t *testing.T) {
	title := "a"
	for len(title) < 200 {
		title += "a"
	}
	got := ToSafeFilename(title, "jpg")
	if len(got) > 125 { // name(120)+.ext
		t.Fatalf("too long: %d", len(got))
	}
}

func TestToSafeDirName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "unsafe chars",
			input:    `Volume 1: "Beginning"`,
			expected: "Volume 1_ _Beginning_",
		},
		{
			name:     "empty",
			input:    "",
			expected: "chapter",
		},
		{
			name:     "trailing dots",
			input:    "Chapter 3...",
			expected: "Chapter 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSafeDirName(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
