package lingoq

import "strings"

// LanguageNames maps base language codes to names used in upstream prompts.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"bn": "Bengali",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fa": "Persian",
	"fr": "French",
	"gu": "Gujarati",
	"he": "Hebrew",
	"hi": "Hindi",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"kn": "Kannada",
	"ko": "Korean",
	"ml": "Malayalam",
	"mr": "Marathi",
	"nl": "Dutch",
	"pa": "Punjabi",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"sw": "Swahili",
	"ta": "Tamil",
	"te": "Telugu",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[BaseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// BaseLang extracts the lower-cased base language ("pt" from "pt_BR" or "pt-BR").
func BaseLang(langCode string) string {
	base, _, _ := strings.Cut(NormalizeLocale(langCode), "_")
	return strings.ToLower(strings.TrimSpace(base))
}

// SameLanguage reports whether two codes share a base language.
func SameLanguage(a, b string) bool {
	return BaseLang(a) == BaseLang(b)
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ToHTMLLang converts a locale code to HTML lang attribute format (e.g., "es_ES" → "es-ES").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}
