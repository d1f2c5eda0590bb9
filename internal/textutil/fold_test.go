package textutil

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Google AI", "googleai"},
		{"  Trained\tAlgorithmic\nMedia ", "trainedalgorithmicmedia"},
		{"ÉDITED", "édited"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeBytesDropsInvalidSequences(t *testing.T) {
	raw := []byte{'G', 'o', 0xff, 'o', 0xfe, 'g', 'l', 'e'}
	if got := DecodeBytes(raw); got != "Google" {
		t.Fatalf("DecodeBytes = %q, want Google", got)
	}
	if got := DecodeBytes([]byte("plain")); got != "plain" {
		t.Fatalf("DecodeBytes = %q", got)
	}
}

func TestContainsAny(t *testing.T) {
	if !ContainsAny("madewithgoogleai", []string{"openai", "googleai"}) {
		t.Fatal("expected match")
	}
	if ContainsAny("camera", []string{"", "google"}) {
		t.Fatal("unexpected match")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("My Site!"); got != "my_site" {
		t.Fatalf("SanitizeToken = %q", got)
	}
	if got := SanitizeToken("   "); got != "unknown" {
		t.Fatalf("SanitizeToken blank = %q", got)
	}
}
