package extract_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"oneprompt/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Bakery</title></head>
<body><h1>Fresh bread</h1></body>
</html>`
	sampleCSS = `body { color: #333; margin: 0; }`
	sampleJS  = `document.querySelector('h1').addEventListener('click', () => alert('hi'));`
)

func TestExtract_Structured(t *testing.T) {
	t.Parallel()

	t.Run("returns valid fields unchanged with high confidence", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"html": sampleHTML,
			"css":  sampleCSS,
			"js":   sampleJS,
		})

		assert.Equal(t, sampleHTML, got.HTML)
		assert.Equal(t, sampleCSS, got.CSS)
		assert.Equal(t, sampleJS, got.JS)
		assert.Empty(t, got.Text)
		assert.Equal(t, extract.ConfidenceHigh, got.Confidence)
	})

	t.Run("adding js raises medium to high", func(t *testing.T) {
		t.Parallel()

		without := extract.Extract(map[string]any{"html": sampleHTML, "css": sampleCSS})
		with := extract.Extract(map[string]any{"html": sampleHTML, "css": sampleCSS, "js": sampleJS})

		assert.Equal(t, extract.ConfidenceMedium, without.Confidence)
		assert.Equal(t, extract.ConfidenceHigh, with.Confidence)
	})

	t.Run("js only is low confidence", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{"js": sampleJS})

		assert.Equal(t, sampleJS, got.JS)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})

	t.Run("placeholder js comment becomes text", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{"js": "// Interactive features will be added here"})

		assert.Empty(t, got.JS)
		assert.Equal(t, "// Interactive features will be added here", got.Text)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})

	t.Run("prose in code fields is pooled into text", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"html": sampleHTML,
			"css":  "Use a warm palette throughout.",
			"text": "Here is your bakery site.",
		})

		assert.Equal(t, sampleHTML, got.HTML)
		assert.Empty(t, got.CSS)
		assert.Equal(t, "Here is your bakery site.\n\nUse a warm palette throughout.", got.Text)
		assert.Equal(t, extract.ConfidenceMedium, got.Confidence)
	})

	t.Run("duplicate prose is kept once", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"html": sampleHTML,
			"css":  "No styles needed.",
			"js":   "No styles needed.",
			"text": "No styles needed.",
		})

		assert.Equal(t, "No styles needed.", got.Text)
	})

	t.Run("message is used when text is absent", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{"html": sampleHTML, "message": "Done."})

		assert.Equal(t, "Done.", got.Text)
	})

	t.Run("quoted and escaped fields are cleaned", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"html": `"<div class=\"hero\">Welcome</div>"`,
		})

		assert.Equal(t, `<div class="hero">Welcome</div>`, got.HTML)
	})

	t.Run("falls back to scanning pooled text", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"text": "Here you go: <div>Hello</div> enjoy.",
		})

		assert.Equal(t, "<div>Hello</div>", got.HTML)
		assert.Equal(t, "Here you go:  enjoy.", got.Text)
		assert.Equal(t, extract.ConfidenceMedium, got.Confidence)
	})

	t.Run("non-string fields do not break extraction", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{
			"html": 42.0,
			"css":  nil,
			"js":   false,
			"text": []any{"a", "b"},
		})

		assert.Empty(t, got.HTML)
		assert.Empty(t, got.CSS)
		assert.Empty(t, got.JS)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})

	t.Run("empty object falls back to its serialization", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(map[string]any{})

		assert.Equal(t, "{}", got.Text)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})
}

func TestExtract_String(t *testing.T) {
	t.Parallel()

	t.Run("separates document, rule and function from prose", func(t *testing.T) {
		t.Parallel()

		input := "Here is the page.\n" + sampleHTML + "\nStyles: body{color:red;}\nScript: function foo(){}\nEnjoy!"

		got := extract.Extract(input)

		assert.Equal(t, sampleHTML, got.HTML)
		assert.Equal(t, "body{color:red;}", got.CSS)
		assert.Equal(t, "function foo(){}", got.JS)
		assert.NotContains(t, got.Text, "<html>")
		assert.NotContains(t, got.Text, "color:red")
		assert.NotContains(t, got.Text, "function foo")
		assert.Contains(t, got.Text, "Here is the page.")
		assert.Contains(t, got.Text, "Enjoy!")
		assert.Equal(t, extract.ConfidenceHigh, got.Confidence)
	})

	t.Run("plain prose is low confidence text", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("  just some plain sentences, no code  ")

		assert.Empty(t, got.HTML)
		assert.Empty(t, got.CSS)
		assert.Empty(t, got.JS)
		assert.Equal(t, "just some plain sentences, no code", got.Text)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})

	t.Run("single stream is medium confidence", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("Try this rule: .card { padding: 1rem; }")

		assert.Equal(t, ".card { padding: 1rem; }", got.CSS)
		assert.Equal(t, "Try this rule:", got.Text)
		assert.Equal(t, extract.ConfidenceMedium, got.Confidence)
	})

	t.Run("inline style inside the document is not counted twice", func(t *testing.T) {
		t.Parallel()

		doc := "<html><head><style>h1 { color: red; }</style></head><body><h1>Hi</h1></body></html>"

		got := extract.Extract("Result:\n" + doc)

		assert.Equal(t, doc, got.HTML)
		assert.Empty(t, got.CSS)
		assert.Equal(t, "Result:", got.Text)
	})

	t.Run("nested elements are matched to their balancing closer", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("<div><div>inner</div><p>tail</p></div> after")

		assert.Equal(t, "<div><div>inner</div><p>tail</p></div>", got.HTML)
		assert.Equal(t, "after", got.Text)
	})

	t.Run("separate elements are joined with newlines", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("<h1>Title</h1> and <p>Body</p> and <br/>")

		assert.Equal(t, "<h1>Title</h1>\n<p>Body</p>\n<br/>", got.HTML)
	})

	t.Run("unclosed opener does not hide later elements", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("<p>intro <span>kept</span>")

		assert.Equal(t, "<span>kept</span>", got.HTML)
	})

	t.Run("prose mentioning raw text tags keeps later elements", func(t *testing.T) {
		t.Parallel()

		for _, tag := range []string{"script", "style", "title", "plaintext", "iframe", "noscript", "xmp", "textarea"} {
			input := "I put the logic in a <" + tag + "> block at the end.\n<div class=\"hero\"><h1>Hello</h1></div>"

			got := extract.Extract(input)

			assert.Equal(t, `<div class="hero"><h1>Hello</h1></div>`, got.HTML, tag)
			assert.Equal(t, "I put the logic in a <"+tag+"> block at the end.", got.Text, tag)
			assert.Equal(t, extract.ConfidenceMedium, got.Confidence, tag)
		}
	})

	t.Run("script bodies inside an element stay opaque", func(t *testing.T) {
		t.Parallel()

		el := "<div><script>if (a <div) { x = '</span>'; }</script></div>"

		got := extract.Extract("See " + el)

		assert.Equal(t, el, got.HTML)
		assert.Equal(t, "See", got.Text)
	})

	t.Run("void elements stand alone or inside containers", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract(`<img src=x> then <div><img src="y"><input type=text></div> done`)

		assert.Equal(t, "<img src=x>\n"+`<div><img src="y"><input type=text></div>`, got.HTML)
		assert.Equal(t, "then  done", got.Text)
	})

	t.Run("unclosed openers before a closed element", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("<ul><li>one<li>two</ul> and <p>kept</p>")

		assert.Equal(t, "<ul><li>one<li>two</ul>\n<p>kept</p>", got.HTML)
		assert.Equal(t, "and", got.Text)
	})

	t.Run("tagged fences are captured whole", func(t *testing.T) {
		t.Parallel()

		input := "Markup:\n```html\n<section><h2>Menu</h2></section>\n```\n" +
			"Styles:\n```css\nsection { display: grid; }\n```\n" +
			"Behaviour:\n```javascript\nwindow.onload = () => console.log('ready');\n```\nThat's all."

		got := extract.Extract(input)

		assert.Equal(t, "<section><h2>Menu</h2></section>", got.HTML)
		assert.Equal(t, "section { display: grid; }", got.CSS)
		assert.Equal(t, "window.onload = () => console.log('ready');", got.JS)
		assert.Equal(t, "Markup:\n\nStyles:\n\nBehaviour:\n\nThat's all.", got.Text)
		assert.Equal(t, extract.ConfidenceHigh, got.Confidence)
	})

	t.Run("leftover fences are stripped from text", func(t *testing.T) {
		t.Parallel()

		got := extract.Extract("Run this:\n```bash\nnpm start\n```\nthen open the browser.")

		assert.Equal(t, "Run this:\n\nthen open the browser.", got.Text)
		assert.Equal(t, extract.ConfidenceLow, got.Confidence)
	})
}

func TestExtract_NeverFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		text  string
	}{
		{name: "nil", input: nil, text: ""},
		{name: "number", input: 42, text: "42"},
		{name: "float", input: 4.5, text: "4.5"},
		{name: "bool", input: true, text: "true"},
		{name: "empty object", input: map[string]any{}, text: "{}"},
		{name: "array", input: []any{"a"}, text: `["a"]`},
		{name: "empty string", input: "", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got extract.ParsedResult
			require.NotPanics(t, func() { got = extract.Extract(tt.input) })

			assert.Empty(t, got.HTML)
			assert.Empty(t, got.CSS)
			assert.Empty(t, got.JS)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, extract.ConfidenceLow, got.Confidence)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes objects", func(t *testing.T) {
		t.Parallel()

		body, err := json.Marshal(map[string]string{"html": sampleHTML, "css": sampleCSS})
		require.NoError(t, err)

		got := extract.ExtractJSON(body)

		assert.Equal(t, sampleHTML, got.HTML)
		assert.Equal(t, sampleCSS, got.CSS)
		assert.Equal(t, extract.ConfidenceMedium, got.Confidence)
	})

	t.Run("invalid json is scanned as text", func(t *testing.T) {
		t.Parallel()

		got := extract.ExtractJSON([]byte("not json <p>para</p>"))

		assert.Equal(t, "<p>para</p>", got.HTML)
		assert.Equal(t, "not json", got.Text)
	})

	t.Run("confidence encodes as a string", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(extract.Extract("plain"))
		require.NoError(t, err)

		assert.JSONEq(t, `{"html":"","css":"","js":"","text":"plain","confidence":"low"}`, string(out))
	})
}

func TestExtract_LargeInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		html  string
	}{
		{name: "unclosed paragraphs", input: strings.Repeat("<p>item ", 20000)},
		{name: "unclosed list items", input: "<ul>" + strings.Repeat("<li>entry ", 20000)},
		{name: "bare images", input: strings.Repeat("<img src=a.png> ", 5000), html: strings.TrimSuffix(strings.Repeat("<img src=a.png>\n", 5000), "\n")},
		{name: "raw text mentions", input: strings.Repeat("a <script> b <style> ", 5000) + "<div>end</div>", html: "<div>end</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			began := time.Now()
			got := extract.Extract(tt.input)
			elapsed := time.Since(began)

			assert.Equal(t, tt.html, got.HTML)
			assert.Less(t, elapsed, 3*time.Second)
		})
	}
}
