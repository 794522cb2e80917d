package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// Renderer turns a template identifier and a context into rendered bytes.
// The engine behind it is a collaborator of the composer, not part of it.
type Renderer interface {
	Render(templateID string, data map[string]any) ([]byte, error)
}

// TemplateRenderer renders html/template files rooted at a views directory.
// A template id without an extension maps to "<id>.html" under the root;
// ids that already carry an extension are used as-is.
type TemplateRenderer struct {
	root string
}

// NewTemplateRenderer creates a TemplateRenderer over root.
func NewTemplateRenderer(root string) *TemplateRenderer {
	return &TemplateRenderer{root: root}
}

func (r *TemplateRenderer) Render(templateID string, data map[string]any) ([]byte, error) {
	name := templateID
	if filepath.Ext(name) == "" {
		name += ".html"
	}

	tmpl, err := template.ParseFiles(filepath.Join(r.root, filepath.Clean(name)))
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", templateID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", templateID, err)
	}
	return buf.Bytes(), nil
}
