package slugutil

import "testing"

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Jane Doe", "jane-doe"},
		{"  Jane   Doe  ", "jane-doe"},
		{"Martha O'Hara-Smith Jr.", "martha-ohara-smith-jr"},
		{"J.D. Vance", "jd-vance"},
		{"--weird--input--", "weird-input"},
		{"", ""},
		{"!!!", ""},
	}

	for _, test := range testCases {
		got := Generate(test.name)
		if got != test.expected {
			t.Fatalf("Generate(%q) = %q, expected %q", test.name, got, test.expected)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("  Jane \t DOE \n") != "jane doe" {
		t.Fatal("expected normalized name")
	}
}
