package oracle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderSubstitutesDeclaredVariables(t *testing.T) {
	tmpl := Template{Name: "t", Text: "Context: {context}\nInput: {input}", Variables: []string{VarInput, VarContext}}
	got, err := tmpl.Render(map[string]string{"input": "how much {context}?", "context": "Aspirin:1"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "Context: Aspirin:1\nInput: how much {context}?"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderFailsOnMissingVariable(t *testing.T) {
	tmpl := Template{Name: "t", Text: "{input}", Variables: []string{VarInput}}
	if _, err := tmpl.Render(map[string]string{}); err == nil {
		t.Fatal("expected missing variable error")
	}
}

func TestDefaultTemplatesReferenceVariables(t *testing.T) {
	templates := DefaultTemplates()
	for _, tmpl := range []Template{templates.Resolution, templates.Synthesis} {
		if err := tmpl.validate(); err != nil {
			t.Fatalf("%s: %v", tmpl.Name, err)
		}
	}
	if !strings.Contains(templates.Resolution.Text, `return "0"`) {
		t.Fatal("resolution prompt must describe the not-found sentinel")
	}
}

func TestLoadTemplatesEmptyPathReturnsDefaults(t *testing.T) {
	templates, err := LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if templates.Synthesis.Text != DefaultTemplates().Synthesis.Text {
		t.Fatal("expected default synthesis prompt")
	}
}

func TestLoadTemplatesOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "resolution: |\n  Pick from {context} for {input}. Reply with the id only.\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	templates, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if !strings.HasPrefix(templates.Resolution.Text, "Pick from {context}") {
		t.Fatalf("Resolution.Text = %q", templates.Resolution.Text)
	}
	if templates.Synthesis.Text != DefaultTemplates().Synthesis.Text {
		t.Fatal("synthesis prompt should keep its default")
	}
}

func TestLoadTemplatesRejectsOverrideWithoutPlaceholder(t *testing.T) {
	_, err := parseTemplates([]byte("synthesis: \"Answer {input} please\"\n"), DefaultTemplates())
	if err == nil || !strings.Contains(err.Error(), "{context}") {
		t.Fatalf("error = %v", err)
	}
}
