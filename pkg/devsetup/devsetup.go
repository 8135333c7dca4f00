// Package devsetup provisions a development workstation: base packages,
// Docker, browsers, PostgreSQL, the shell prompt, and GNOME preferences.
// Each group is idempotent and failures in one group do not stop the rest.
package devsetup

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/jaspreet-dot-casa/deskctl/pkg/download"
	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// Group describes one setup group.
type Group struct {
	ID          string
	Name        string
	Description string

	run func(ctx context.Context, s *Setup) error
}

// groups is the fixed set of setup groups, in run order.
var groups = []Group{
	{
		ID:          "packages",
		Name:        "Base Packages",
		Description: "Build tools and common CLI utilities via apt",
		run:         runPackages,
	},
	{
		ID:          "docker",
		Name:        "Docker",
		Description: "Docker engine from the official apt repository",
		run:         runDocker,
	},
	{
		ID:          "browsers",
		Name:        "Browsers",
		Description: "Google Chrome (.deb), Firefox and Chromium (snap)",
		run:         runBrowsers,
	},
	{
		ID:          "postgres",
		Name:        "PostgreSQL",
		Description: "PostgreSQL server and client via apt",
		run:         runPostgres,
	},
	{
		ID:          "prompt",
		Name:        "Shell Prompt",
		Description: "Starship prompt with a git-aware PS1 fallback",
		run:         runPrompt,
	},
	{
		ID:          "gnome",
		Name:        "GNOME Preferences",
		Description: "Dark theme, tap-to-click, dock favorites",
		run:         runGnome,
	},
}

// Groups returns all setup groups in run order.
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// FindGroup returns the group with the given ID.
func FindGroup(id string) (Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Setup runs workstation setup groups.
type Setup struct {
	Runner *execx.Runner
	Client *download.Client
	System *sysinfo.Info

	// DownloadDir receives fetched artifacts (the Chrome .deb).
	DownloadDir string
	// RcPath is the shell rc file receiving managed blocks. Empty means
	// ~/.bashrc.
	RcPath string
	// StarshipConfig is where the starship preset lands. Empty means
	// $XDG_CONFIG_HOME/starship.toml.
	StarshipConfig string
	// OnStep receives human-readable progress lines; nil disables them.
	OnStep func(group, message string)
	// Getenv reads environment variables (overridable for testing).
	Getenv func(key string) string
}

// NewSetup creates a Setup wired to the real system.
func NewSetup(runner *execx.Runner, sys *sysinfo.Info, downloadDir string) *Setup {
	return &Setup{
		Runner:      runner,
		Client:      download.NewClient(),
		System:      sys,
		DownloadDir: downloadDir,
	}
}

// Run executes the named groups, or all groups when ids is empty. Failures
// are collected so later groups still run.
func (s *Setup) Run(ctx context.Context, ids []string) error {
	var selected []Group
	if len(ids) == 0 {
		selected = groups
	} else {
		for _, id := range ids {
			g, ok := FindGroup(id)
			if !ok {
				return fmt.Errorf("unknown setup group %q (see 'deskctl devsetup --list')", id)
			}
			selected = append(selected, g)
		}
	}

	var result *multierror.Error
	for _, g := range selected {
		if err := g.run(ctx, s); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", g.ID, err))
		}
	}
	return result.ErrorOrNil()
}

func (s *Setup) step(group, message string) {
	if s.OnStep != nil {
		s.OnStep(group, message)
	}
}

func (s *Setup) getenv(key string) string {
	if s.Getenv != nil {
		return s.Getenv(key)
	}
	return os.Getenv(key)
}

// rcPath resolves the shell rc file receiving managed blocks.
func (s *Setup) rcPath() (string, error) {
	if s.RcPath != "" {
		return s.RcPath, nil
	}
	home, err := sysinfo.HomeDir()
	if err != nil {
		return "", err
	}
	return home + "/.bashrc", nil
}

// starshipConfigPath resolves where the starship preset is written.
func (s *Setup) starshipConfigPath() (string, error) {
	if s.StarshipConfig != "" {
		return s.StarshipConfig, nil
	}
	configHome, err := sysinfo.ConfigHome()
	if err != nil {
		return "", err
	}
	return configHome + "/starship.toml", nil
}

// targetUser is the user being set up, looking through sudo.
func (s *Setup) targetUser() string {
	if u := s.getenv("SUDO_USER"); u != "" {
		return u
	}
	return s.getenv("USER")
}
