package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt es el prompt de sistema usado cuando prompts.yml no lo define.
const DefaultSystemPrompt = "You are a senior technology and privacy attorney. Return ONLY Markdown."

const defaultEditingContext = "You are continuing an editing session. The current base Markdown document is provided below.\n" +
	"Apply user instructions as surgical edits to this base, preserving headings, numbering, anchors, and tables.\n" +
	"Return ONLY updated Markdown (no backticks, no code fences).\n"

const defaultTitleInstruction = "You are naming a legal document editing session. Generate a concise, professional 3-7 word title " +
	"based on the user's request and, if provided, the current Markdown document. Prefer specific nouns " +
	"(e.g., company name, jurisdiction) and keep it neutral. Return ONLY the title text without quotes."

// Prompts contiene los textos de prompt cargados desde prompts.yml. Los campos
// vacíos caen a los defaults embebidos; el archivo es opcional.
type Prompts struct {
	System struct {
		ContractGeneration string `yaml:"contract_generation"`
		EditingContext     string `yaml:"editing_context"`
	} `yaml:"system"`
	User struct {
		GenerationRequirements string `yaml:"generation_requirements"`
	} `yaml:"user"`
	Title struct {
		Instruction string `yaml:"instruction"`
	} `yaml:"title"`
}

// LoadPrompts lee prompts.yml desde path. Un archivo ausente o malformado
// devuelve el valor cero (todos los accessors caen a defaults).
func LoadPrompts(path string) Prompts {
	var p Prompts
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompts{}
	}
	return p
}

// SystemPrompt devuelve el prompt de sistema para generación de contratos.
func (p Prompts) SystemPrompt() string {
	if p.System.ContractGeneration != "" {
		return p.System.ContractGeneration
	}
	return DefaultSystemPrompt
}

// EditingContext devuelve el bloque de sistema para sesiones de edición.
func (p Prompts) EditingContext() string {
	if p.System.EditingContext != "" {
		return p.System.EditingContext
	}
	return defaultEditingContext
}

// GenerationRequirements devuelve la plantilla de requisitos de generación,
// con el marcador {context} para el prompt armado; vacío significa sin plantilla.
func (p Prompts) GenerationRequirements() string {
	return p.User.GenerationRequirements
}

// TitleInstruction devuelve la instrucción para sintetizar títulos de sesión.
func (p Prompts) TitleInstruction() string {
	if p.Title.Instruction != "" {
		return p.Title.Instruction
	}
	return defaultTitleInstruction
}
