package utils

import "strings"

// NormalizeLanguage maps LeetCode's display names for languages onto short
// canonical keys. Unknown names are lowercased and returned as-is.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))

	languageMap := map[string]string{
		"javascript": "js",
		"typescript": "ts",

		"python":  "python",
		"python3": "python",
		"pandas":  "python",

		"go":     "go",
		"golang": "go",

		"c++": "cpp",
		"cpp": "cpp",

		"c#":     "csharp",
		"csharp": "csharp",

		"mysql":         "sql",
		"ms sql server": "sql",
		"oracle":        "sql",
		"postgresql":    "sql",
	}

	if normalized, ok := languageMap[lang]; ok {
		return normalized
	}

	return lang
}
