package oracle

import (
	"fmt"
	"strings"
)

// Template is a prompt with {name} placeholders for each declared variable.
type Template struct {
	Name      string
	Text      string
	Variables []string
}

func (t Template) Render(vars map[string]string) (string, error) {
	pairs := make([]string, 0, len(t.Variables)*2)
	for _, name := range t.Variables {
		value, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("render %s prompt: missing variable %q", t.Name, name)
		}
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(t.Text), nil
}

func (t Template) validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%s prompt is empty", t.Name)
	}
	for _, name := range t.Variables {
		if !strings.Contains(t.Text, "{"+name+"}") {
			return fmt.Errorf("%s prompt does not reference {%s}", t.Name, name)
		}
	}
	return nil
}
