package types

// GeneratedFile is one downloadable artifact of a generated site.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Type     string `json:"type"` // e.g., "HTML", "CSS", "JavaScript"
	Content  string `json:"content"`
}

// Message is one turn of the conversation that led to a generation.
type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}
