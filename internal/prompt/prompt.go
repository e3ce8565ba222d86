// Package prompt renders the meal plan instruction sent to the language model.
//
// The nutrition policy (protein rotation, food groups, WHO guidance for 1-5
// year olds, output layout) lives in the template text, not in code. The
// default template is embedded; a file can replace it without a rebuild.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

const (
	StartMarker = "--- MENÚ GUARDERÍA ---"
	EndMarker   = "--- FIN MENÚ GUARDERÍA ---"

	// probe is rendered once at parse time to prove the template uses .MenuText
	probe = "\x00menu-text-probe\x00"
)

//go:embed templates/meal_plan.tmpl
var mealPlanTemplate string

// Template is a parsed meal plan prompt. It is safe for concurrent use.
type Template struct {
	tmpl *template.Template
}

type data struct {
	MenuText string
}

// Default returns the embedded meal plan template
func Default() *Template {
	t, err := Parse(mealPlanTemplate)
	if err != nil {
		panic(fmt.Sprintf("embedded meal plan template is invalid: %v", err))
	}
	return t
}

// Load reads a template from path. An empty path returns Default().
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	t, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template %s: %w", path, err)
	}
	return t, nil
}

// Parse parses text as a meal plan template. The template must place
// {{.MenuText}} between StartMarker and EndMarker.
func Parse(text string) (*Template, error) {
	tmpl, err := template.New("meal_plan").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	t := &Template{tmpl: tmpl}

	rendered, err := t.Render(probe)
	if err != nil {
		return nil, err
	}
	start := strings.Index(rendered, StartMarker)
	end := strings.LastIndex(rendered, EndMarker)
	at := strings.Index(rendered, probe)
	switch {
	case at < 0:
		return nil, fmt.Errorf("template does not use {{.MenuText}}")
	case start < 0 || end < 0:
		return nil, fmt.Errorf("template must contain %q and %q", StartMarker, EndMarker)
	case at < start || at > end:
		return nil, fmt.Errorf("{{.MenuText}} must appear between the menu markers")
	}
	return t, nil
}

// Render interpolates menuText verbatim into the template
func (t *Template) Render(menuText string) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data{MenuText: menuText}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}
