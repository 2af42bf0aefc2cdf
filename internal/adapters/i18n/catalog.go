// Package i18n provides the user-facing strings of the intervention screens.
package i18n

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(supported)

type entry struct {
	key string
	en  catalog.Message
	it  catalog.Message
}

func str(s string) catalog.Message { return catalog.String(s) }

var entries = []entry{
	{"app.title", str("Pausa"), str("Pausa")},

	{"waiting.title", str("Take a breath"), str("Fai un respiro")},
	{"waiting.subtitle", str("%s will open after the pause."), str("%s si aprirà dopo la pausa.")},
	{"waiting.remaining",
		plural.Selectf(1, "%d", "one", "%d second left", "other", "%d seconds left"),
		plural.Selectf(1, "%d", "one", "Manca %d secondo", "other", "Mancano %d secondi")},
	{"waiting.opens",
		plural.Selectf(1, "%d", "=0", "First open today.", "one", "Opened once already today.", "other", "Opened %d times already today."),
		plural.Selectf(1, "%d", "=0", "Prima apertura di oggi.", "one", "Già aperta una volta oggi.", "other", "Già aperta %d volte oggi.")},

	{"intention.prompt", str("Why are you opening %s?"), str("Perché stai aprendo %s?")},
	{"intention.direct_message", str("Reply to a message"), str("Rispondere a un messaggio")},
	{"intention.specific_content", str("Look for something specific"), str("Cercare qualcosa di preciso")},
	{"intention.bored", str("I'm bored"), str("Mi annoio")},
	{"intention.no_reason", str("No real reason"), str("Nessun motivo")},
	{"intention.other", str("Something else"), str("Altro")},
	{"intention.other.placeholder", str("Tell yourself why..."), str("Scrivi il motivo...")},
	{"intention.other.submit", str("enter to confirm"), str("invio per confermare")},
	{"intention.other.empty", str("Write a reason to continue"), str("Scrivi un motivo per continuare")},

	{"confirm.title", str("Your intention: %s"), str("La tua intenzione: %s")},
	{"confirm.warning",
		plural.Selectf(1, "%d", "one", "You already opened apps like this once today.", "other", "You already opened apps like this %d times today."),
		plural.Selectf(1, "%d", "one", "Oggi hai già aperto app come questa una volta.", "other", "Oggi hai già aperto app come questa %d volte.")},
	{"confirm.proceed", str("Open %s"), str("Apri %s")},
	{"confirm.dismiss", str("Go back"), str("Torna indietro")},

	{"done.proceed", str("Opening %s."), str("Apertura di %s.")},
	{"done.dismiss", str("Good choice."), str("Ottima scelta.")},

	{"help.waiting", str("esc: go back"), str("esc: torna indietro")},
	{"help.intention", str("up/down: move  enter: choose  esc: go back"), str("su/giù: scorri  invio: scegli  esc: torna indietro")},
	{"help.confirm", str("o: open  b: go back"), str("o: apri  b: torna indietro")},
}

// Catalog translates message keys for one language. Unknown keys are
// returned unchanged.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]bool
}

// New returns a catalog for the closest supported match to locale, falling
// back to English.
func New(locale string) (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := b.Set(language.English, e.key, e.en); err != nil {
			return nil, fmt.Errorf("add %s (en): %w", e.key, err)
		}
		if err := b.Set(language.Italian, e.key, e.it); err != nil {
			return nil, fmt.Errorf("add %s (it): %w", e.key, err)
		}
		known[e.key] = true
	}

	tag := Match(locale)
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
		known:   known,
	}, nil
}

// Match returns the supported language closest to locale.
func Match(locale string) language.Tag {
	requested, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(requested) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(requested...)
	return supported[idx]
}

// Language returns the language the catalog renders.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T renders key with args.
func (c *Catalog) T(key string, args ...any) string {
	if !c.known[key] {
		return key
	}
	return c.printer.Sprintf(key, args...)
}
