package prompts

import "fmt"

// SiteSystemPrompt frames the model for single-page site generation.
const SiteSystemPrompt = "You are a helpful AI assistant that generates websites based on user prompts and specific formatting instructions."

// GetSiteGenerationPrompt returns the template for a generation request.
// It takes the user's description as its only argument.
func GetSiteGenerationPrompt() string {
	return `
		You are a website generator AI.

		A user has submitted the following website description:

		---
		"%s"
		---

		Please create a **single-page website** based on the following rules:

		1.  **Markup**: one complete HTML5 document starting with <!DOCTYPE html> and ending with </html>
		2.  **Styling**: plain CSS, responsive layout, consistent color theme
		3.  **Behaviour**: plain JavaScript, no frameworks, no external scripts
		4.  Do not inline the CSS or the JavaScript into the HTML; they are merged later.
		5.  Never use placeholder comments in place of real code.

		Respond with a single JSON object in the following format:

		` + "```json" + `
		{
			"html": "<!DOCTYPE html>...",
			"css": "body { ... }",
			"js": "document.addEventListener(...)",
			"text": "One or two sentences describing what was built."
		}
		` + "```" + `

		Only return the JSON object. Your output will be parsed and rendered as a live preview.
	`
}

// BuildSitePrompt fills the generation template with the user's description.
func BuildSitePrompt(description string) string {
	return fmt.Sprintf(GetSiteGenerationPrompt(), description)
}
