package speechkit

import "strings"

// Recognition models supported by SpeechKit STT v3.
const (
	ModelGeneral           = "general"
	ModelGeneralRC         = "general:rc"
	ModelGeneralDeprecated = "general:deprecated"
)

// DefaultLanguage is what the backend assumes when no restriction is
// supplied.
const DefaultLanguage = "ru-RU"

// SupportedSampleRates are the only PCM rates the backend accepts for
// LINEAR16_PCM streaming.
var SupportedSampleRates = []int{8000, 16000, 48000}

func supportedSampleRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}

var supportedLanguages = map[string]struct{}{
	"ru-RU": {}, "en-US": {}, "tr-TR": {}, "kk-KK": {}, "uz-UZ": {},
	"hy-AM": {}, "he-IL": {}, "ar": {}, "eu": {}, "ba": {}, "be": {},
	"bg": {}, "ca": {}, "cs": {}, "da": {}, "de": {}, "el": {},
	"es": {}, "et": {}, "fi": {}, "fr": {}, "ga": {}, "it": {},
	"ja": {}, "ko": {}, "ky": {}, "lt": {}, "lv": {}, "mn": {},
	"nl": {}, "no": {}, "pl": {}, "pt": {}, "ro": {}, "sk": {},
	"sl": {}, "sv": {}, "tg": {}, "th": {}, "tt": {}, "uk": {},
	"vi": {}, "zh": {},
}

var languageAliases = map[string]string{
	"ru":      "ru-RU",
	"en":      "en-US",
	"russian": "ru-RU",
	"english": "en-US",
}

// NormalizeLanguage maps common shorthand codes onto the backend's
// language codes. Unknown codes are returned unchanged.
func NormalizeLanguage(language string) string {
	if mapped, ok := languageAliases[strings.ToLower(language)]; ok {
		return mapped
	}
	return language
}

// SupportedLanguage reports whether the backend recognizes the code.
func SupportedLanguage(language string) bool {
	_, ok := supportedLanguages[NormalizeLanguage(language)]
	return ok
}
