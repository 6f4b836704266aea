package extract

// Confidence is a coarse signal of how much real code a reply carried.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParsedResult is the four-stream split of one generation reply.
type ParsedResult struct {
	HTML       string     `json:"html"`
	CSS        string     `json:"css"`
	JS         string     `json:"js"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
}

// HasCode reports whether any of the code streams is non-empty.
func (r ParsedResult) HasCode() bool {
	return r.HTML != "" || r.CSS != "" || r.JS != ""
}

// structuredConfidence grades results taken directly from reply fields.
func structuredConfidence(html, css, js string) Confidence {
	switch {
	case html != "" && css != "" && js != "":
		return ConfidenceHigh
	case html != "" || css != "":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// scannedConfidence grades results recovered from free-form text.
func scannedConfidence(html, css, js string) Confidence {
	switch {
	case html != "" && (css != "" || js != ""):
		return ConfidenceHigh
	case html != "" || css != "" || js != "":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
