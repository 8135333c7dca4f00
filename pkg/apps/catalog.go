// Package apps holds the application catalog and the installer engine that
// downloads releases, places artifacts, and registers desktop integration.
package apps

import (
	"context"

	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
)

// App describes one installable application.
type App struct {
	ID          string // catalog ID, used for .desktop filenames and state
	Name        string
	Description string
	Category    string

	install func(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error)
}

// catalog is the fixed set of applications deskctl knows how to install.
var catalog = []App{
	{
		ID:          "cursor",
		Name:        "Cursor",
		Description: "AI-first code editor (AppImage)",
		Category:    "Development",
		install:     installCursor,
	},
	{
		ID:          "bambu-studio",
		Name:        "Bambu Studio",
		Description: "Bambu Lab 3D printing slicer (AppImage)",
		Category:    "3D Printing",
		install:     installBambuStudio,
	},
	{
		ID:          "cura",
		Name:        "UltiMaker Cura",
		Description: "UltiMaker 3D printing slicer (AppImage)",
		Category:    "3D Printing",
		install:     installCura,
	},
	{
		ID:          "rubymine",
		Name:        "RubyMine",
		Description: "JetBrains Ruby and Rails IDE",
		Category:    "Development",
		install:     installRubyMine,
	},
	{
		ID:          "clipboard-indicator",
		Name:        "Clipboard Indicator",
		Description: "GNOME Shell clipboard history extension",
		Category:    "GNOME",
		install:     installClipboardIndicator,
	},
}

// Catalog returns all installable applications.
func Catalog() []App {
	out := make([]App, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the catalog entry for an app ID.
func Find(id string) (App, bool) {
	for _, app := range catalog {
		if app.ID == id {
			return app, true
		}
	}
	return App{}, false
}

// IDs returns every catalog ID in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, app := range catalog {
		ids[i] = app.ID
	}
	return ids
}
