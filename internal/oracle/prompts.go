package oracle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ResolutionTemplate = "resolution"
	SynthesisTemplate  = "synthesis"

	VarInput   = "input"
	VarContext = "context"
)

const resolutionPrompt = `
Answer the question only based on the context.
Your task is to match as closely as possible, the medication from the input to an item from the context.
The id should be the number next to the medication name in the context.

Your output should only consist of the id number.
If the medication is not found in the context, return "0".

### Example:
**User Input:** "How much Benadril do we have in stock?"
**Transformed Output:** "2"

Context: {context}

Input: {input}
Assistant:
`

const synthesisPrompt = `
Only Answer using the context and data from the database.

Use quantity for quantity.
Use length for amount of packages.

Use location for location.
Use type for type
Use cap for quantity per package.
Use name for corrected name
Use strength_or_volume for strength/volume
Use route for route
Use possible_side_effect for possible side effects

Context:
{context}

### Example:
**User Input:** "How much Benadril do we have in stock?"
**Output:** "There is 69 capsules over 2 packages with a cap of 60 capsules per package of Diphenhydramine (Benadryl) in stock?"

Input: {input}
Assistant:
`

type Templates struct {
	Resolution Template
	Synthesis  Template
}

func DefaultTemplates() Templates {
	return Templates{
		Resolution: Template{
			Name:      ResolutionTemplate,
			Text:      resolutionPrompt,
			Variables: []string{VarInput, VarContext},
		},
		Synthesis: Template{
			Name:      SynthesisTemplate,
			Text:      synthesisPrompt,
			Variables: []string{VarInput, VarContext},
		},
	}
}

type promptFile struct {
	Resolution string `yaml:"resolution"`
	Synthesis  string `yaml:"synthesis"`
}

// LoadTemplates overrides the default prompts with the ones found in a YAML
// file. An empty path returns the defaults. Keys absent from the file keep
// their default text.
func LoadTemplates(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read prompts file: %w", err)
	}
	return parseTemplates(raw, templates)
}

func parseTemplates(raw []byte, templates Templates) (Templates, error) {
	var file promptFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Templates{}, fmt.Errorf("decode prompts file: %w", err)
	}
	if file.Resolution != "" {
		templates.Resolution.Text = file.Resolution
	}
	if file.Synthesis != "" {
		templates.Synthesis.Text = file.Synthesis
	}
	if err := templates.Resolution.validate(); err != nil {
		return Templates{}, err
	}
	if err := templates.Synthesis.validate(); err != nil {
		return Templates{}, err
	}
	return templates, nil
}
