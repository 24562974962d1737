package service

import "strings"

// BuildUserPrompt arma el prompt de usuario para generación de contratos:
// el contexto de negocio del usuario más los requisitos de salida fijos.
func BuildUserPrompt(prompt, companyName, jurisdiction, tone string) string {
	parts := []string{
		"Context provided by the user describing business and needs:",
		strings.TrimSpace(prompt),
		"\nOutput requirements:",
		"- Return ONLY GitHub-Flavored Markdown (no code fences, no backticks).",
		"- Use #, ##, ### headings with consistent numbering; include a table of contents.",
		"- Ensure consistent defined terms and cross-references.",
		"- Be Verbose and Detailed",
		"- Target 10+ printed pages equivalent when rendered (substantial detail and clauses).",
		"- Use numbered sections and subsections (e.g., 1., 1.1., 1.1.1).",
		"- Use a table of contents to navigate the document.",
		"- Use a footer to include a copyright notice and contact information.",
		"- Use a header to include the document title and version number.",
		"- Include placeholders where user specifics are unknown (e.g., Company Name, Address).",
	}
	if companyName != "" {
		parts = append(parts, "- Company Name: "+companyName)
	}
	if jurisdiction != "" {
		parts = append(parts, "- Governing Law / Location Context: "+jurisdiction)
	}
	if tone != "" {
		parts = append(parts, "- Tone: "+tone)
	}
	return strings.Join(parts, "\n")
}

// ApplyGenerationTemplate inserta el contexto armado en la plantilla de
// requisitos (marcador {context}); sin plantilla devuelve el contexto tal cual.
func ApplyGenerationTemplate(template, context string) string {
	if template == "" {
		return context
	}
	return strings.ReplaceAll(template, "{context}", context)
}
