// Package templates renders the markdown artifacts the pipeline writes
// into a feature directory: the feature spec, the implementation plan,
// and the task checklist scaffold.
//
// Templates are embedded so the binary is self-contained. Rendering is
// deliberately dumb — all decisions about content live with the caller.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed files/*.md.tmpl
var files embed.FS

// Name identifies one embedded template.
type Name string

const (
	Spec  Name = "spec"
	Plan  Name = "plan"
	Tasks Name = "tasks"
)

// Renderer renders a named template with its data struct.
// Abstracted so tools can be tested with a fake.
type Renderer interface {
	Render(name Name, data any) (string, error)
}

// SpecData fills the feature spec template.
type SpecData struct {
	FeatureName string
	Branch      string
	Description string
	CreatedAt   string
}

// PlanData fills the implementation plan template.
type PlanData struct {
	FeatureName      string
	Branch           string
	Stack            []string
	TechnicalContext string
}

// TaskLine is one checklist entry in the tasks scaffold.
type TaskLine struct {
	ID          string
	Description string
	Parallel    bool
	Story       string
}

// PhaseData is one phase section of the tasks scaffold.
type PhaseData struct {
	Number int
	Title  string
	Tasks  []TaskLine
}

// TasksData fills the task checklist template.
type TasksData struct {
	FeatureName string
	Phases      []PhaseData
}

type fsRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (Renderer, error) {
	tmpl, err := template.ParseFS(files, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &fsRenderer{tmpl: tmpl}, nil
}

// Render executes the named template.
func (r *fsRenderer) Render(name Name, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(name)+".md.tmpl", data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return buf.String(), nil
}
