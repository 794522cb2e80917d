package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplate(t *testing.T, root, name, body string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestRender(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "restro/menu.html", "<h1>{{.name}}</h1>")

	r := NewTemplateRenderer(root)

	out, err := r.Render("restro/menu", map[string]any{"name": "Acme Diner"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := string(out); got != "<h1>Acme Diner</h1>" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestRender_ExplicitExtension(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "layout.html", "ok")

	r := NewTemplateRenderer(root)
	out, err := r.Render("layout.html", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "ok" {
		t.Errorf("unexpected output: %q", string(out))
	}
}

func TestRender_EscapesValues(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "page.html", "{{.name}}")

	r := NewTemplateRenderer(root)
	out, err := r.Render("page", map[string]any{"name": "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("value was not escaped: %q", string(out))
	}
}

func TestRender_MissingTemplate(t *testing.T) {
	r := NewTemplateRenderer(t.TempDir())
	if _, err := r.Render("restro/menu", nil); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}
