package extract

import "strings"

const documentSkeleton = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n</head>\n<body>\n%BODY%\n</body>\n</html>"

// Document merges the result into one HTML document for preview and export.
// CSS is placed in a <style> element right before </head> and JS in a
// <script> element right before </body>. When the html stream holds no
// <html> element it is wrapped in a minimal document. An empty html stream
// yields an empty document.
func (r ParsedResult) Document() string {
	if strings.TrimSpace(r.HTML) == "" {
		return ""
	}
	doc := documentOf(r.HTML)
	if r.CSS != "" && !strings.Contains(doc, r.CSS) {
		doc = injectStyle(doc, "<style>\n"+r.CSS+"\n</style>")
	}
	if r.JS != "" && !strings.Contains(doc, r.JS) {
		doc = appendBody(doc, "<script>\n"+r.JS+"\n</script>")
	}
	return doc
}

// documentOf returns the first complete document in html, starting at its
// doctype or <html> opener and ending at the last </html>. Fragments found
// before the document open its body and fragments after it close the body.
func documentOf(html string) string {
	open := indexTag(html, "<html")
	if open < 0 {
		return strings.Replace(documentSkeleton, "%BODY%", html, 1)
	}
	start := open
	if dt := indexFold(html[:open], "<!doctype"); dt >= 0 {
		start = dt
	}

	var doc, trailing string
	if end := lastIndexFold(html, "</html>"); end < open {
		doc = html[start:] + "\n</html>"
	} else {
		doc = html[start : end+len("</html>")]
		trailing = strings.TrimSpace(html[end+len("</html>"):])
	}
	if leading := strings.TrimSpace(html[:start]); leading != "" {
		doc = prependBody(doc, leading+"\n")
	}
	if trailing != "" {
		doc = appendBody(doc, "\n"+trailing)
	}
	return doc
}

func prependBody(doc, block string) string {
	if i := openerEnd(doc, "<body"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	if i := openerEnd(doc, "<html"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	return block + doc
}

func injectStyle(doc, block string) string {
	if i := lastIndexFold(doc, "</head>"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	if i := openerEnd(doc, "<html"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	return block + doc
}

func appendBody(doc, block string) string {
	if i := lastIndexFold(doc, "</body>"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	if i := lastIndexFold(doc, "</html>"); i >= 0 {
		return doc[:i] + block + doc[i:]
	}
	return doc + block
}

// openerEnd returns the offset just past the first tag starting with
// prefix, or -1.
func openerEnd(s, prefix string) int {
	i := indexTag(s, prefix)
	if i < 0 {
		return -1
	}
	gt := strings.IndexByte(s[i:], '>')
	if gt < 0 {
		return -1
	}
	return i + gt + 1
}

// indexTag finds prefix as a whole tag name, so "<html" does not match
// "<htmlfoo".
func indexTag(s, prefix string) int {
	for off := 0; off < len(s); {
		i := indexFold(s[off:], prefix)
		if i < 0 {
			return -1
		}
		i += off
		next := i + len(prefix)
		if next >= len(s) || !isNameByte(s[next]) {
			return i
		}
		off = next
	}
	return -1
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

// indexFold is strings.Index with ASCII case folding. Offsets stay valid
// for the original string.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if equalFoldASCII(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func lastIndexFold(s, sub string) int {
	for i := len(s) - len(sub); i >= 0; i-- {
		if equalFoldASCII(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
