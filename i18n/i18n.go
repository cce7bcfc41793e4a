// Package i18n translates the short message codes returned by the API.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

const DefaultLang = "en"

// supported is ordered like matcher; index 0 is the fallback.
var (
	supported = []string{"en", "pl"}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Polish})
)

var messages = map[string]map[string]string{
	"en": {
		"required":                 "Required",
		"must_be_positive":         "Must be greater than zero",
		"must_not_be_negative":     "Must not be negative",
		"out_of_range":             "Out of range",
		"invalid_choice":           "Not an available option",
		"section_locked":           "Please confirm previous selection first",
		"unknown_section":          "Unknown section",
		"section_confirmed":        "Selection confirmed",
		"unknown_field":            "Unknown specification field",
		"invalid_patch":            "Invalid specification change",
		"variant_limit":            "You have reached the maximum number of saved variants",
		"variant_not_found":        "Variant not found",
		"estimate_empty":           "Your estimate is empty",
		"estimate_item_not_found":  "Window not found on the estimate",
		"session_not_found":        "Configuration session not found",
		"unknown_product":          "Ironmongery product not found",
		"ironmongery_not_selected": "That product is not on this window",
		"finish_mismatch":          "That product is not available in the chosen finish",
		"pas24_lock_required":      "PAS24 windows need a PAS24 lock",
		"lock_already_selected":    "Lock already selected. You can only choose one lock type per window.",
		"validation_failed":        "Please complete the highlighted fields",
		"unauthorized":             "Not authorised",
		"bad_json":                 "Request body is not valid JSON",
		"invalid_rules":            "Pricing rules are invalid",
		"no_rule_set":              "No pricing rules have been published",
		"internal_error":           "Something went wrong, please try again",
	},
	"pl": {
		"required":                 "Wymagane",
		"must_be_positive":         "Wartość musi być większa od zera",
		"must_not_be_negative":     "Wartość nie może być ujemna",
		"out_of_range":             "Wartość poza zakresem",
		"invalid_choice":           "Niedostępna opcja",
		"section_locked":           "Najpierw zatwierdź poprzedni wybór",
		"unknown_section":          "Nieznana sekcja",
		"section_confirmed":        "Wybór zatwierdzony",
		"unknown_field":            "Nieznane pole specyfikacji",
		"invalid_patch":            "Nieprawidłowa zmiana specyfikacji",
		"variant_limit":            "Osiągnięto maksymalną liczbę zapisanych wariantów",
		"variant_not_found":        "Nie znaleziono wariantu",
		"estimate_empty":           "Wycena jest pusta",
		"estimate_item_not_found":  "Nie znaleziono okna w wycenie",
		"session_not_found":        "Nie znaleziono sesji konfiguratora",
		"unknown_product":          "Nie znaleziono produktu okuć",
		"ironmongery_not_selected": "Ten produkt nie jest wybrany dla tego okna",
		"finish_mismatch":          "Produkt nie jest dostępny w wybranym wykończeniu",
		"pas24_lock_required":      "Okna PAS24 wymagają zamka PAS24",
		"lock_already_selected":    "Zamek jest już wybrany. Dla jednego okna można wybrać tylko jeden typ zamka.",
		"validation_failed":        "Uzupełnij zaznaczone pola",
		"unauthorized":             "Brak uprawnień",
		"bad_json":                 "Treść żądania nie jest poprawnym JSON",
		"invalid_rules":            "Nieprawidłowe reguły cenowe",
		"no_rule_set":              "Nie opublikowano reguł cenowych",
		"internal_error":           "Coś poszło nie tak, spróbuj ponownie",
	},
}

// DetectLanguage picks the best supported language of an Accept-Language
// header or a bare tag such as "pl".
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return supported[idx]
}

// T translates code, falling back to English and then to the code itself.
func T(lang, code string) string {
	if msg, ok := messages[lang][code]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLang][code]; ok {
		return msg
	}
	return code
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
