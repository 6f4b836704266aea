package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// elementTags are the element names whose balanced occurrences are lifted
// out of free-form replies as HTML.
var elementTags = map[string]bool{
	"html": true, "head": true, "body": true, "div": true, "p": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "header": true, "footer": true, "nav": true, "main": true,
	"article": true, "aside": true, "span": true, "a": true, "img": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "tr": true, "td": true, "th": true,
	"form": true, "input": true, "button": true, "label": true,
	"select": true, "textarea": true,
}

// voidTags are whitelisted elements that never take an end tag.
var voidTags = map[string]bool{"img": true, "input": true}

// rawTextTags are elements whose content the tokenizer would otherwise read
// verbatim up to their end tag, or to the end of input when there is none.
var rawTextTags = map[string]bool{
	"script": true, "style": true, "textarea": true, "title": true,
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "xmp": true,
}

// span is a half-open byte range into the scanned string.
type span struct {
	start, end int
}

// tagEvent is one token of interest. For whitelisted openers match is the
// index of the balancing end tag, or -1 when the opener is never closed.
type tagEvent struct {
	kind       html.TokenType
	name       string
	start, end int
	match      int
}

// scanElements returns, in order of appearance, every maximal balanced
// element whose tag is in elementTags, every whitelisted void element and
// every self-closing tag found outside such an element. A doctype directly
// preceding an <html> element is made part of that element's span. An
// opener that is never closed is skipped, so elements nested in it are
// still found.
func scanElements(s string) []span {
	events := tokenize(s)

	var spans []span
	doctype := -1
	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.kind {
		case html.DoctypeToken:
			doctype = ev.start
			continue
		case html.SelfClosingTagToken:
			spans = append(spans, span{start: ev.start, end: ev.end})
		case html.StartTagToken:
			switch {
			case ev.match >= 0:
				start := ev.start
				if ev.name == "html" && doctype >= 0 {
					start = doctype
				}
				spans = append(spans, span{start: start, end: events[ev.match].end})
				i = ev.match
			case voidTags[ev.name]:
				spans = append(spans, span{start: ev.start, end: ev.end})
			}
		}
		doctype = -1
	}
	return spans
}

// tokenize walks s once and pairs every whitelisted opener with its
// balancing end tag. Raw-text elements are only read as raw text inside an
// open element and when their end tag actually follows; a bare mention
// such as "<script>" in prose is tokenized as an ordinary tag.
func tokenize(s string) []tagEvent {
	z := html.NewTokenizer(strings.NewReader(s))

	var (
		events    []tagEvent
		off       int
		depth     int
		open      = make(map[string][]int)
		lastClose = make(map[string]int)
	)

	closedLater := func(name string, from int) bool {
		if name == "plaintext" {
			return false
		}
		last, ok := lastClose[name]
		if !ok {
			last = lastIndexFold(s, "</"+name)
			lastClose[name] = last
		}
		return last >= from
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return events
		}
		raw := z.Raw()
		ev := tagEvent{kind: tt, start: off, end: off + len(raw), match: -1}
		off = ev.end

		switch tt {
		case html.DoctypeToken, html.SelfClosingTagToken:
			events = append(events, ev)

		case html.StartTagToken:
			name, _ := z.TagName()
			ev.name = string(name)
			if elementTags[ev.name] && !voidTags[ev.name] {
				open[ev.name] = append(open[ev.name], len(events))
				depth++
			}
			if rawTextTags[ev.name] && (depth == 0 || !closedLater(ev.name, off)) {
				z.NextIsNotRawText()
			}
			events = append(events, ev)

		case html.EndTagToken:
			name, _ := z.TagName()
			ev.name = string(name)
			if stack := open[ev.name]; len(stack) > 0 {
				events[stack[len(stack)-1]].match = len(events)
				open[ev.name] = stack[:len(stack)-1]
				depth--
			}
			events = append(events, ev)

		case html.TextToken:
			if strings.TrimSpace(string(raw)) != "" {
				events = append(events, ev)
			}
		}
	}
}

// cutSpans returns s with every span removed. Spans must be sorted and
// must not overlap.
func cutSpans(s string, spans []span) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// pick returns the substrings of s covered by spans.
func pick(s string, spans []span) []string {
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		out = append(out, s[sp.start:sp.end])
	}
	return out
}
