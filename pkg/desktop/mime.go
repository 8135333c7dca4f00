package desktop

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MimeType describes a custom MIME type definition with its file globs.
type MimeType struct {
	Type    string   // e.g. "model/3mf"
	Comment string   // human-readable description
	Globs   []string // e.g. "*.3mf"
}

// mimeInfo is the shared-mime-info XML document structure.
type mimeInfo struct {
	XMLName xml.Name   `xml:"mime-info"`
	Xmlns   string     `xml:"xmlns,attr"`
	Types   []mimeNode `xml:"mime-type"`
}

type mimeNode struct {
	Type    string     `xml:"type,attr"`
	Comment string     `xml:"comment"`
	Globs   []globNode `xml:"glob"`
}

type globNode struct {
	Pattern string `xml:"pattern,attr"`
}

// Render produces a shared-mime-info XML document for the type.
func (m *MimeType) Render() (string, error) {
	if m.Type == "" {
		return "", fmt.Errorf("mime type requires a type name")
	}

	doc := mimeInfo{
		Xmlns: "http://www.freedesktop.org/standards/shared-mime-info",
		Types: []mimeNode{{Type: m.Type, Comment: m.Comment}},
	}
	for _, g := range m.Globs {
		doc.Types[0].Globs = append(doc.Types[0].Globs, globNode{Pattern: g})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal mime definition: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

// Filename returns the definition filename for the type, e.g.
// "model-3mf.xml" for "model/3mf".
func (m *MimeType) Filename() string {
	name := strings.ReplaceAll(m.Type, "/", "-")
	name = strings.ReplaceAll(name, "+", "-")
	return name + ".xml"
}

// WriteTo writes the definition under the given mime packages directory.
func (m *MimeType) WriteTo(packagesDir string) (string, error) {
	content, err := m.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(packagesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create mime packages directory: %w", err)
	}
	path := filepath.Join(packagesDir, m.Filename())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write mime definition: %w", err)
	}
	return path, nil
}
