package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("PL-pl") != "pl" {
		t.Fatalf("expected pl for PL-pl")
	}
	if DetectLanguage("de-DE,pl;q=0.8") != "pl" {
		t.Fatalf("expected pl as first supported language")
	}
	if DetectLanguage("") != "en" {
		t.Fatalf("expected default en")
	}
	if DetectLanguage("de") != "en" {
		t.Fatalf("expected default en for unsupported language")
	}
	if DetectLanguage("pl") != "pl" {
		t.Fatalf("expected bare tag pl")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "section_locked") != "Please confirm previous selection first" {
		t.Fatalf("unexpected english notice")
	}
	if T("pl", "required") != "Wymagane" {
		t.Fatalf("expected Wymagane")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to en translation
	if T("es", "required") != "Required" {
		t.Fatalf("expected en fallback for es lang")
	}
}

func TestLangContext(t *testing.T) {
	if LangFromContext(context.Background()) != DefaultLang {
		t.Fatalf("expected default language")
	}
	if LangFromContext(WithLang(context.Background(), "pl")) != "pl" {
		t.Fatalf("expected pl from context")
	}
}
