// Package desktop writes freedesktop.org integration files: .desktop
// application entries, shared-mime-info definitions, and hicolor theme
// icons, then refreshes the desktop databases that index them.
package desktop

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry models a desktop entry file of Type=Application.
type Entry struct {
	Name           string
	GenericName    string
	Comment        string
	Exec           string
	TryExec        string
	Icon           string
	Terminal       bool
	Categories     []string
	MimeTypes      []string
	Keywords       []string
	StartupWMClass string
}

// Validate checks the fields required for a usable entry.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("desktop entry requires a Name")
	}
	if e.Exec == "" {
		return fmt.Errorf("desktop entry %q requires an Exec line", e.Name)
	}
	return nil
}

// Render produces the .desktop file content. Keys appear in a fixed order
// so repeated installs produce identical files.
func (e *Entry) Render() string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Version=1.0\n")
	b.WriteString("Type=Application\n")
	writeKey(&b, "Name", e.Name)
	writeKey(&b, "GenericName", e.GenericName)
	writeKey(&b, "Comment", e.Comment)
	writeKey(&b, "TryExec", e.TryExec)
	writeKey(&b, "Exec", e.Exec)
	writeKey(&b, "Icon", e.Icon)
	fmt.Fprintf(&b, "Terminal=%t\n", e.Terminal)
	writeList(&b, "Categories", e.Categories)
	writeList(&b, "MimeType", e.MimeTypes)
	writeList(&b, "Keywords", e.Keywords)
	writeKey(&b, "StartupWMClass", e.StartupWMClass)
	return b.String()
}

// Write validates and writes the entry to path.
func (e *Entry) Write(path string) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create applications directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(e.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write desktop entry: %w", err)
	}
	return nil
}

func writeKey(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s=%s\n", key, value)
}

// writeList writes a semicolon-terminated list value, the convention for
// multi-value desktop entry keys.
func writeList(b *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s=%s;\n", key, strings.Join(values, ";"))
}
