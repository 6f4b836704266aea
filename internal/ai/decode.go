package ai

import (
	"encoding/json"
	"strings"
)

// wrapperKeys are envelope fields generation workflows put the actual reply
// under, in order of preference.
var wrapperKeys = []string{"output", "response", "content", "result", "data"}

// replyKeys are the fields the extractor reads; an object carrying any of
// them is not unwrapped further.
var replyKeys = []string{"html", "css", "js", "text", "message"}

const maxUnwrapDepth = 4

// DecodeReply turns raw reply text into the value handed to the extractor.
// A reply that is JSON, optionally inside a ```json fence, is decoded and
// any envelope such as {"output": ...} is peeled off. Anything else is
// returned as the original text.
func DecodeReply(reply string) any {
	return decodeText(reply, 0)
}

func decodeText(text string, depth int) any {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if !strings.HasPrefix(cleaned, "{") && !strings.HasPrefix(cleaned, `"`) {
		return text
	}

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return text
	}
	return unwrap(v, depth)
}

func unwrap(v any, depth int) any {
	if depth >= maxUnwrapDepth {
		return v
	}
	switch t := v.(type) {
	case string:
		return decodeText(t, depth+1)
	case map[string]any:
		for _, k := range replyKeys {
			if _, ok := t[k]; ok {
				return t
			}
		}
		for _, k := range wrapperKeys {
			if inner, ok := t[k]; ok && inner != nil {
				return unwrap(inner, depth+1)
			}
		}
	}
	return v
}
