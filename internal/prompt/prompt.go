// Package prompt owns the persona and instruction templates and assembles
// the single prompt handed to the reasoning engine.
package prompt

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts
var promptFiles embed.FS

// Load returns the raw template for a given name.
func Load(name string) (string, error) {
	content, err := promptFiles.ReadFile(fmt.Sprintf("prompts/%s.md", name))
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return string(content), nil
}

// LoadWithContext loads a template and substitutes {{.Name}} placeholders.
// Values are interpolated verbatim; blank values stay blank.
func LoadWithContext(name string, context map[string]string) (string, error) {
	content, err := Load(name)
	if err != nil {
		return "", err
	}

	for key, value := range context {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		content = strings.ReplaceAll(content, placeholder, value)
	}

	return content, nil
}
