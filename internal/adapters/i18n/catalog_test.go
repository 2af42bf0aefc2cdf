package i18n

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en", language.English},
		{"it", language.Italian},
		{"it-IT", language.Italian},
		{"de", language.English},
		{"", language.English},
		{"fr-CH, it;q=0.8", language.Italian},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := Match(tt.locale); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.locale, got, tt.want)
			}
		})
	}
}

func TestCatalog_T(t *testing.T) {
	en, err := New("en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	it, err := New("it")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		c    *Catalog
		key  string
		args []any
		want string
	}{
		{"plain", en, "intention.bored", nil, "I'm bored"},
		{"italian", it, "intention.bored", nil, "Mi annoio"},
		{"argument", en, "intention.prompt", []any{"Instagram"}, "Why are you opening Instagram?"},
		{"plural one", en, "waiting.remaining", []any{1}, "1 second left"},
		{"plural other", en, "waiting.remaining", []any{21}, "21 seconds left"},
		{"italian plural", it, "waiting.remaining", []any{5}, "Mancano 5 secondi"},
		{"zero opens", en, "waiting.opens", []any{0}, "First open today."},
		{"unknown key", en, "no.such.key", nil, "no.such.key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.T(tt.key, tt.args...); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestCatalog_CoversIntentions(t *testing.T) {
	for _, locale := range []string{"en", "it"} {
		c, err := New(locale)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range domain.Intentions() {
			if got := c.T(in.LabelKey); got == in.LabelKey {
				t.Errorf("%s: no translation for %s", locale, in.LabelKey)
			}
		}
	}
}
