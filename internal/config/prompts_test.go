package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsMissingFileFallsBackToDefaults(t *testing.T) {
	p := LoadPrompts(filepath.Join(t.TempDir(), "missing.yml"))

	if p.SystemPrompt() != DefaultSystemPrompt {
		t.Fatalf("expected default system prompt, got %q", p.SystemPrompt())
	}
	if p.EditingContext() == "" {
		t.Fatal("expected default editing context")
	}
	if p.TitleInstruction() == "" {
		t.Fatal("expected default title instruction")
	}
	if p.GenerationRequirements() != "" {
		t.Fatalf("expected empty generation template, got %q", p.GenerationRequirements())
	}
}

func TestLoadPromptsOverridesFromFile(t *testing.T) {
	content := `
system:
  contract_generation: "Custom system prompt"
  editing_context: "Custom editing block"
user:
  generation_requirements: "Requirements: {context}"
title:
  instruction: "Custom title instruction"
`
	path := filepath.Join(t.TempDir(), "prompts.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	p := LoadPrompts(path)

	if p.SystemPrompt() != "Custom system prompt" {
		t.Fatalf("unexpected system prompt: %q", p.SystemPrompt())
	}
	if p.EditingContext() != "Custom editing block" {
		t.Fatalf("unexpected editing context: %q", p.EditingContext())
	}
	if p.GenerationRequirements() != "Requirements: {context}" {
		t.Fatalf("unexpected generation template: %q", p.GenerationRequirements())
	}
	if p.TitleInstruction() != "Custom title instruction" {
		t.Fatalf("unexpected title instruction: %q", p.TitleInstruction())
	}
}

func TestLoadPromptsMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yml")
	if err := os.WriteFile(path, []byte("system: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := LoadPrompts(path)
	if p.SystemPrompt() != DefaultSystemPrompt {
		t.Fatalf("expected default system prompt, got %q", p.SystemPrompt())
	}
}
