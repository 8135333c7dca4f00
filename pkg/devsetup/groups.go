package devsetup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/download"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/shellrc"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

// basePackages is the apt package set every workstation gets.
var basePackages = []string{
	"build-essential",
	"git",
	"curl",
	"wget",
	"htop",
	"jq",
	"tree",
	"unzip",
	"vim",
	"tmux",
	"net-tools",
	"ca-certificates",
	"gnupg",
}

func runPackages(ctx context.Context, s *Setup) error {
	var missing []string
	for _, pkg := range basePackages {
		if !s.Runner.DpkgInstalled(pkg) {
			missing = append(missing, pkg)
		}
	}
	if len(missing) == 0 {
		s.step("packages", "all base packages already installed")
		return nil
	}

	s.step("packages", fmt.Sprintf("installing %d packages", len(missing)))
	if err := s.Runner.AptUpdate(); err != nil {
		return err
	}
	return s.Runner.AptInstall(missing...)
}

const dockerKeyringPath = "/etc/apt/keyrings/docker.asc"

func runDocker(ctx context.Context, s *Setup) error {
	if s.Runner.Have("docker") {
		s.step("docker", "already installed")
		return nil
	}

	s.step("docker", "adding Docker apt repository")
	if _, err := s.Runner.Sudo("install", "-m", "0755", "-d", "/etc/apt/keyrings"); err != nil {
		return err
	}
	keyURL := fmt.Sprintf("https://download.docker.com/linux/%s/gpg", s.System.ID)
	if _, err := s.Runner.SudoShell(fmt.Sprintf("curl -fsSL %s -o %s", keyURL, dockerKeyringPath)); err != nil {
		return fmt.Errorf("failed to fetch docker signing key: %w", err)
	}

	sourceLine := fmt.Sprintf(
		"deb [arch=%s signed-by=%s] https://download.docker.com/linux/%s %s stable",
		s.System.Arch, dockerKeyringPath, s.System.ID, s.System.Codename,
	)
	script := fmt.Sprintf("echo '%s' > /etc/apt/sources.list.d/docker.list", sourceLine)
	if _, err := s.Runner.SudoShell(script); err != nil {
		return fmt.Errorf("failed to write docker apt source: %w", err)
	}

	s.step("docker", "installing Docker engine")
	if err := s.Runner.AptUpdate(); err != nil {
		return err
	}
	pkgs := []string{"docker-ce", "docker-ce-cli", "containerd.io", "docker-buildx-plugin", "docker-compose-plugin"}
	if err := s.Runner.AptInstall(pkgs...); err != nil {
		return err
	}
	if err := s.Runner.EnableService("docker"); err != nil {
		return err
	}

	if user := s.targetUser(); user != "" {
		s.step("docker", fmt.Sprintf("adding %s to the docker group", user))
		if _, err := s.Runner.Sudo("usermod", "-aG", "docker", user); err != nil {
			return fmt.Errorf("failed to add %s to docker group: %w", user, err)
		}
		s.step("docker", "log out and back in for group membership to apply")
	}
	return nil
}

// ChromeDebURL is Google's stable channel .deb. Variable so tests can point
// it at a local server.
var ChromeDebURL = "https://dl.google.com/linux/direct/google-chrome-stable_current_amd64.deb"

func runBrowsers(ctx context.Context, s *Setup) error {
	if s.Runner.DpkgInstalled("google-chrome-stable") {
		s.step("browsers", "Google Chrome already installed")
	} else if s.System.Arch != "amd64" {
		// Google ships no arm64 desktop build.
		s.step("browsers", "skipping Google Chrome ("+s.System.Arch+" not supported)")
	} else {
		s.step("browsers", "downloading Google Chrome")
		debPath := filepath.Join(s.DownloadDir, "google-chrome-stable_current_amd64.deb")
		if !s.Runner.DryRun() {
			if err := s.Client.Fetch(ctx, download.Options{URL: ChromeDebURL, DestPath: debPath}); err != nil {
				return fmt.Errorf("failed to download chrome: %w", err)
			}
		}
		if err := s.Runner.AptInstallDeb(debPath); err != nil {
			return err
		}
	}

	for _, snap := range []string{"firefox", "chromium"} {
		if s.Runner.SnapInstalled(snap) {
			s.step("browsers", snap+" already installed")
			continue
		}
		s.step("browsers", "installing "+snap+" snap")
		if err := s.Runner.SnapInstall(snap, false); err != nil {
			return err
		}
	}
	return nil
}

func runPostgres(ctx context.Context, s *Setup) error {
	if s.Runner.DpkgInstalled("postgresql") {
		s.step("postgres", "already installed")
	} else {
		s.step("postgres", "installing PostgreSQL")
		if err := s.Runner.AptUpdate(); err != nil {
			return err
		}
		if err := s.Runner.AptInstall("postgresql", "postgresql-contrib", "libpq-dev"); err != nil {
			return err
		}
	}
	return s.Runner.EnableService("postgresql")
}

// starshipInit is the managed rc block enabling starship for bash.
const starshipInit = `eval "$(starship init bash)"`

// gitPromptFallback is a git-aware PS1 used when starship cannot be
// installed.
const gitPromptFallback = `parse_git_branch() { git branch 2>/dev/null | sed -n 's/^\* \(.*\)/ (\1)/p'; }
PS1='\[\033[01;32m\]\u@\h\[\033[00m\]:\[\033[01;34m\]\w\[\033[33m\]$(parse_git_branch)\[\033[00m\]\$ '`

func runPrompt(ctx context.Context, s *Setup) error {
	rc, err := s.rcPath()
	if err != nil {
		return err
	}

	if !s.Runner.Have("starship") {
		s.step("prompt", "installing starship")
		if _, err := s.Runner.SudoShell("curl -sS https://starship.rs/install.sh | sh -s -- --yes"); err != nil {
			s.step("prompt", "starship install failed, using git-aware PS1 fallback")
			if s.Runner.DryRun() {
				return nil
			}
			return shellrc.Apply(rc, "prompt", gitPromptFallback)
		}
	}

	configPath, err := s.starshipConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		s.step("prompt", "writing starship preset to "+configPath)
		if err := s.Runner.MkdirAll(filepath.Dir(configPath)); err != nil {
			return err
		}
		if err := s.Runner.WriteFile(configPath, []byte(StarshipPreset), 0644); err != nil {
			return err
		}
	}

	s.step("prompt", "enabling starship in "+rc)
	if s.Runner.DryRun() {
		return nil
	}
	return shellrc.Apply(rc, "prompt", starshipInit)
}

// gnomeSettings are applied with gsettings; each row is schema, key, value.
var gnomeSettings = [][3]string{
	{"org.gnome.desktop.interface", "color-scheme", "prefer-dark"},
	{"org.gnome.desktop.interface", "gtk-theme", "Yaru-dark"},
	{"org.gnome.desktop.peripherals.touchpad", "tap-to-click", "true"},
	{"org.gnome.shell", "favorite-apps", `['org.gnome.Nautilus.desktop', 'firefox_firefox.desktop', 'cursor.desktop', 'org.gnome.Terminal.desktop']`},
}

func runGnome(ctx context.Context, s *Setup) error {
	tools := desktop.NewToolChain(s.Runner.Executor())
	if err := tools.Detect(); err != nil {
		logx.Log.Debug().Err(err).Msg("desktop toolchain incomplete")
	}
	if !tools.HasGNOME() {
		s.step("gnome", "gsettings not available, skipping")
		return nil
	}
	if session := s.getenv("XDG_CURRENT_DESKTOP"); session == "" ||
		!containsFold(session, "GNOME") {
		s.step("gnome", "not a GNOME session, skipping")
		return nil
	}

	s.step("gnome", "applying GNOME preferences")
	for _, setting := range gnomeSettings {
		if _, err := s.Runner.Run("gsettings", "set", setting[0], setting[1], setting[2]); err != nil {
			return fmt.Errorf("gsettings set %s %s: %w", setting[0], setting[1], err)
		}
	}
	return nil
}
