// Package extract splits loosely structured LLM replies into HTML, CSS,
// JavaScript and narrative text.
//
// Extraction is a pure function of its input: it performs no I/O, keeps no
// state between calls and is safe for concurrent use.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var (
	cssRulePattern = regexp.MustCompile(`(?i)([.#]?[\w-]+\s*\{[^}]+\})|(@media[^{]+\{[\s\S]+?\}\s*\})`)

	jsStatementPattern = regexp.MustCompile(`(?i)(\bfunction\s+\w+\s*\([^)]*\)\s*\{[\s\S]*?\})|\b(const|let|var)\s+\w+\s*=[\s\S]*?;|(\bdocument\.\w+[\s\S]*?;)|(addEventListener\([^)]+\)[\s\S]*?\})`)

	// taggedFencePattern captures the language tag and body of a fenced block.
	taggedFencePattern = regexp.MustCompile("(?s)```([A-Za-z]+)[ \\t]*\\n(.*?)```")

	fencePattern = regexp.MustCompile("(?s)```.*?```")

	blankLinesPattern = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// Extract splits a reply into its code and text streams. input is any
// decoded JSON value: an object with optional html, css, js, text or
// message fields, or anything else, which is treated as a string.
//
// Extract never fails; input without recognizable code comes back as
// low-confidence text.
func Extract(input any) ParsedResult {
	switch v := normalize(input).(type) {
	case map[string]any:
		return extractFields(v)
	default:
		return extractString(stringify(v))
	}
}

// ExtractJSON decodes body and extracts from the decoded value. A body that
// is not valid JSON is extracted as a plain string.
func ExtractJSON(body []byte) ParsedResult {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return extractString(string(body))
	}
	return Extract(v)
}

func extractFields(fields map[string]any) ParsedResult {
	rawHTML := cleanField(fieldString(fields["html"]))
	rawCSS := cleanField(fieldString(fields["css"]))
	rawJS := cleanField(fieldString(fields["js"]))
	rawText := cleanField(fieldString(fields["text"]))
	if rawText == "" {
		rawText = cleanField(fieldString(fields["message"]))
	}

	var html, css, js string
	pool := []string{rawText}
	if IsHTML(rawHTML) {
		html = rawHTML
	} else {
		pool = append(pool, rawHTML)
	}
	if IsCSS(rawCSS) {
		css = rawCSS
	} else if rawCSS != rawHTML {
		pool = append(pool, rawCSS)
	}
	if IsJS(rawJS) {
		js = rawJS
	} else if rawJS != rawHTML && rawJS != rawCSS {
		pool = append(pool, rawJS)
	}
	text := joinUnique(pool)

	if html != "" || css != "" || js != "" {
		return ParsedResult{
			HTML:       html,
			CSS:        css,
			JS:         js,
			Text:       text,
			Confidence: structuredConfidence(html, css, js),
		}
	}
	if text != "" {
		return extractString(text)
	}
	return extractString(stringify(fields))
}

func extractString(content string) ParsedResult {
	rest, fenced := takeFencedCode(content)
	html, css, js := fenced.html, fenced.css, fenced.js

	elements := scanElements(rest)
	html = append(html, pick(rest, elements)...)
	rest = cutSpans(rest, elements)

	rules := toSpans(cssRulePattern.FindAllStringIndex(rest, -1))
	css = append(css, pick(rest, rules)...)
	rest = cutSpans(rest, rules)

	statements := toSpans(jsStatementPattern.FindAllStringIndex(rest, -1))
	js = append(js, pick(rest, statements)...)
	rest = cutSpans(rest, statements)

	rest = fencePattern.ReplaceAllString(rest, "")

	r := ParsedResult{
		HTML: strings.Join(html, "\n"),
		CSS:  strings.Join(css, "\n"),
		JS:   strings.Join(js, "\n"),
		Text: normalizeText(rest),
	}
	r.Confidence = scannedConfidence(r.HTML, r.CSS, r.JS)
	return r
}

type fencedCode struct {
	html, css, js []string
}

// takeFencedCode lifts out fenced blocks tagged html, css, js or javascript
// whose body passes the matching classifier. Other fences are left in place.
func takeFencedCode(content string) (string, fencedCode) {
	var (
		found fencedCode
		taken []span
	)
	for _, m := range taggedFencePattern.FindAllStringSubmatchIndex(content, -1) {
		lang := strings.ToLower(content[m[2]:m[3]])
		body := strings.TrimSpace(content[m[4]:m[5]])
		switch {
		case lang == "html" && IsHTML(body):
			found.html = append(found.html, body)
		case lang == "css" && IsCSS(body):
			found.css = append(found.css, body)
		case (lang == "js" || lang == "javascript") && IsJS(body):
			found.js = append(found.js, body)
		default:
			continue
		}
		taken = append(taken, span{start: m[0], end: m[1]})
	}
	return cutSpans(content, taken), found
}

// normalize turns input into one of the shapes produced by encoding/json.
func normalize(input any) any {
	switch v := input.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return v
	case json.RawMessage:
		return decodeOrString(v)
	case []byte:
		return decodeOrString(v)
	}
	if s, err := cast.ToStringE(input); err == nil {
		return s
	}
	b, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	return decodeOrString(b)
}

func decodeOrString(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	return v
}

// fieldString reads a reply field. Missing and falsy values read as empty.
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	case map[string]any, []any:
		return stringify(t)
	}
	return cast.ToString(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return cast.ToString(v)
}

// joinUnique joins non-empty parts with blank lines, keeping the first
// occurrence of each.
func joinUnique(parts []string) string {
	seen := make(map[string]bool, len(parts))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}

func normalizeText(s string) string {
	return strings.TrimSpace(blankLinesPattern.ReplaceAllString(s, "\n\n"))
}

func toSpans(idx [][]int) []span {
	spans := make([]span, 0, len(idx))
	for _, m := range idx {
		spans = append(spans, span{start: m[0], end: m[1]})
	}
	return spans
}
