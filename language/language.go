package language

// Language describes one supported language: the BCP-47 style code used for
// speech capture, the display name embedded into tutor instructions, and the
// synthesis voice requested from the speech provider.
type Language struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

var Supported = []Language{
	{Code: "en", Name: "English", Voice: "alloy"},
	{Code: "es", Name: "Spanish", Voice: "nova"},
	{Code: "fr", Name: "French", Voice: "shimmer"},
	{Code: "de", Name: "German", Voice: "onyx"},
	{Code: "it", Name: "Italian", Voice: "fable"},
	{Code: "pt", Name: "Portuguese", Voice: "echo"},
	{Code: "ja", Name: "Japanese", Voice: "nova"},
	{Code: "ko", Name: "Korean", Voice: "shimmer"},
	{Code: "zh-CN", Name: "Chinese (Simplified / China)", Voice: "alloy"},
	{Code: "zh-TW", Name: "Chinese (Traditional / Taiwan)", Voice: "echo"},
}

// ByCode looks a language up by its code.
func ByCode(code string) (Language, bool) {
	for _, l := range Supported {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// IsSupported reports whether the code names a supported language.
func IsSupported(code string) bool {
	_, ok := ByCode(code)
	return ok
}
