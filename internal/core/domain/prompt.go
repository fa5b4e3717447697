package domain

import "strings"

const DefaultTemplate = "You are a chatbot. You are in {language}.\n\n{freeform_text}"

// RenderPrompt fills the {language} and {freeform_text} placeholders of the prompt template.
func RenderPrompt(p TextPrompt) string {
	template := p.Template
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	return strings.NewReplacer(
		"{language}", p.Language,
		"{freeform_text}", p.Text,
	).Replace(template)
}
