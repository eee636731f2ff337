package i18n

import "testing"

func TestLookupFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	if got := T("es", "greeting"); got == "" || got == "greeting" {
		t.Fatalf("expected spanish greeting, got %q", got)
	}
	if got, want := T("fr", "greeting"), T("en", "greeting"); got != want {
		t.Fatalf("unknown language should fall back to english, got %q", got)
	}
	if got := T("en", "does-not-exist"); got != "does-not-exist" {
		t.Fatalf("missing key should surface the key, got %q", got)
	}
}

func TestNextCyclesThroughSupportedLanguages(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	lang := Default
	for range Supported {
		seen[lang] = true
		lang = Next(lang)
	}
	if lang != Default {
		t.Fatalf("cycle should wrap back to %q, ended on %q", Default, lang)
	}
	for _, code := range Supported {
		if !seen[code] {
			t.Fatalf("cycle skipped %q", code)
		}
	}
	if Next("xx") != Default {
		t.Fatalf("unknown code should restart the cycle")
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	if !Valid("zh") {
		t.Fatal("zh should be valid")
	}
	if Valid("de") {
		t.Fatal("de should not be valid")
	}
}
