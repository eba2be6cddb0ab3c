package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/photoshare/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_KeepsText(t *testing.T) {
	if got := htmlsanitize.PlainText("  ¡Hola! 5 < 10  "); got != "¡Hola! 5 < 10" {
		t.Errorf("expected trimmed text unchanged, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	if got := htmlsanitize.PlainText("<b>Sunset</b> at the <i>beach</i>"); got != "Sunset at the beach" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_RemovesScript(t *testing.T) {
	got := htmlsanitize.PlainText("<p>Hello</p><script>alert('xss')</script>")
	if got != "Hello" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestPlainText_DecodesEntities(t *testing.T) {
	if got := htmlsanitize.PlainText("<p>Tom & Jerry</p>"); got != "Tom & Jerry" {
		t.Errorf("expected entity decoded, got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	cases := map[string]bool{
		"":             true,
		"Hello":        true,
		"5 < 10":       true,
		"5 > 3":        true,
		"<p>Hello</p>": false,
	}
	for in, want := range cases {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := htmlsanitize.Clamp("ñandú", 3); got != "ñan" {
		t.Errorf("Clamp by runes: got %q", got)
	}
	if got := htmlsanitize.Clamp("abc", 5); got != "abc" {
		t.Errorf("Clamp short: got %q", got)
	}
}
