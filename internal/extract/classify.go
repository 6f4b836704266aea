package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minHTMLLength = 10
	minCSSLength  = 10
	minJSLength   = 15

	// Comment-only JS shorter than this is treated as a placeholder.
	placeholderCommentLength = 50
)

var (
	htmlStructurePattern = regexp.MustCompile(`(?i)<(html|head|body|div|section|header|footer|nav|main|article|aside|p|h[1-6]|ul|ol|li|a|img|form|input|button|table|tr|td|th|script|style|meta|link|title)\b[^>]*>`)

	cssDeclarationPattern = regexp.MustCompile(`[.#]?[\w-]+\s*\{[^}]*[\w-]+\s*:\s*[^;]+;`)

	jsSyntaxPattern = regexp.MustCompile(`(\bfunction\b[\w\s]*\(|\bconst\s+\w+|\blet\s+\w+|\bvar\s+\w+|\bdocument\.|addEventListener|\bconsole\.|=>|\bif\s*\(|\bfor\s*\(|\bwhile\s*\(|\}\s*\))`)

	placeholderComments = map[string]bool{
		"// Interactive features will be added here":    true,
		"/* Interactive features will be added here */": true,
	}
)

// IsHTML reports whether s carries at least one structural HTML tag.
func IsHTML(s string) bool {
	if utf8.RuneCountInString(s) < minHTMLLength {
		return false
	}
	return htmlStructurePattern.MatchString(s)
}

// IsCSS reports whether s carries a selector block with a declaration.
func IsCSS(s string) bool {
	if utf8.RuneCountInString(s) < minCSSLength {
		return false
	}
	return cssDeclarationPattern.MatchString(s)
}

// IsJS reports whether s looks like executable JavaScript rather than a
// placeholder comment.
func IsJS(s string) bool {
	if utf8.RuneCountInString(s) < minJSLength {
		return false
	}
	if isPlaceholder(s) {
		return false
	}
	return jsSyntaxPattern.MatchString(s)
}

func isPlaceholder(s string) bool {
	trimmed := strings.TrimSpace(s)
	if placeholderComments[trimmed] {
		return true
	}
	return strings.HasPrefix(trimmed, "// ") && utf8.RuneCountInString(trimmed) < placeholderCommentLength
}

// cleanField undoes one level of string encoding: a single leading and a
// single trailing quote are dropped and escaped quotes are restored.
func cleanField(s string) string {
	if s == "" {
		return ""
	}
	if s[0] == '"' || s[0] == '\'' {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return strings.TrimSpace(strings.ReplaceAll(s, `\"`, `"`))
}
