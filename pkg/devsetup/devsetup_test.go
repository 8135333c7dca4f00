package devsetup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/deskctl/pkg/download"
	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/shellrc"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// MockExecutor is a mock command executor for testing.
type MockExecutor struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(name string, args ...string) (string, error)
	Calls        []string
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Run(name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, name+" "+strings.Join(args, " "))
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "", nil
}

func (m *MockExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	out, err := m.Run(name, args...)
	return []byte(out), err
}

func (m *MockExecutor) FileExists(path string) bool { return true }

func called(calls []string, substr string) bool {
	for _, c := range calls {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

func newTestSetup(t *testing.T, mock *MockExecutor) *Setup {
	t.Helper()
	dir := t.TempDir()
	return &Setup{
		Runner:         execx.NewRunner(mock),
		Client:         download.NewClient(),
		System:         &sysinfo.Info{ID: "ubuntu", VersionID: "24.04", Codename: "noble", Arch: "amd64"},
		DownloadDir:    filepath.Join(dir, "downloads"),
		RcPath:         filepath.Join(dir, "bashrc"),
		StarshipConfig: filepath.Join(dir, "starship.toml"),
		Getenv:         func(string) string { return "" },
	}
}

func TestPrompt_WritesStarshipPreset(t *testing.T) {
	s := newTestSetup(t, &MockExecutor{})

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	data, err := os.ReadFile(s.StarshipConfig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[git_branch]")

	// An existing config is left alone.
	require.NoError(t, os.WriteFile(s.StarshipConfig, []byte("# mine"), 0644))
	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	data, err = os.ReadFile(s.StarshipConfig)
	require.NoError(t, err)
	assert.Equal(t, "# mine", string(data))
}

func TestPrompt_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dry := execx.NewDryRunExecutor()
	s := &Setup{
		Runner:         execx.NewRunner(dry),
		Client:         download.NewClient(),
		System:         &sysinfo.Info{ID: "ubuntu", VersionID: "24.04", Codename: "noble", Arch: "amd64"},
		DownloadDir:    filepath.Join(dir, "downloads"),
		RcPath:         filepath.Join(dir, "bashrc"),
		StarshipConfig: filepath.Join(dir, "starship.toml"),
		Getenv:         func(string) string { return "" },
	}

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))

	assert.NoFileExists(t, s.StarshipConfig)
	assert.NoFileExists(t, s.RcPath)
	assert.True(t, called(dry.Commands(), "cat > "+s.StarshipConfig))
}

func TestGroups(t *testing.T) {
	ids := make([]string, 0, len(Groups()))
	for _, g := range Groups() {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"packages", "docker", "browsers", "postgres", "prompt", "gnome"}, ids)

	g, ok := FindGroup("docker")
	require.True(t, ok)
	assert.Equal(t, "Docker", g.Name)

	_, ok = FindGroup("kernel")
	assert.False(t, ok)
}

func TestRun_UnknownGroup(t *testing.T) {
	s := newTestSetup(t, &MockExecutor{})
	err := s.Run(context.Background(), []string{"kernel"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setup group")
}

func TestPackages_AllInstalled(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "dpkg-query" {
				return "install ok installed", nil
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)

	var steps []string
	s.OnStep = func(group, msg string) { steps = append(steps, msg) }

	require.NoError(t, s.Run(context.Background(), []string{"packages"}))
	assert.Contains(t, steps, "all base packages already installed")
	assert.False(t, called(mock.Calls, "apt-get install"))
}

func TestPackages_InstallsMissing(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "dpkg-query" {
				// Only git is present.
				if args[len(args)-1] == "git" {
					return "install ok installed", nil
				}
				return "", errors.New("not installed")
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"packages"}))
	assert.True(t, called(mock.Calls, "apt-get update"))

	var installCall string
	for _, c := range mock.Calls {
		if strings.Contains(c, "apt-get install") {
			installCall = c
		}
	}
	require.NotEmpty(t, installCall)
	assert.Contains(t, installCall, "build-essential")
	assert.Contains(t, installCall, "gnupg")
	assert.NotContains(t, installCall, " git ", "installed package must be filtered out")
}

func TestDocker_AlreadyInstalled(t *testing.T) {
	mock := &MockExecutor{}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"docker"}))
	assert.Empty(t, mock.Calls)
}

func TestDocker_Installs(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "docker" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
	}
	s := newTestSetup(t, mock)
	s.Getenv = func(key string) string {
		if key == "USER" {
			return "dev"
		}
		return ""
	}

	require.NoError(t, s.Run(context.Background(), []string{"docker"}))
	assert.True(t, called(mock.Calls, "download.docker.com/linux/ubuntu/gpg"))
	assert.True(t, called(mock.Calls, "signed-by=/etc/apt/keyrings/docker.asc"))
	assert.True(t, called(mock.Calls, "noble stable"))
	assert.True(t, called(mock.Calls, "docker-ce docker-ce-cli containerd.io"))
	assert.True(t, called(mock.Calls, "systemctl enable --now docker"))
	assert.True(t, called(mock.Calls, "usermod -aG docker dev"))
}

func TestBrowsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake deb"))
	}))
	defer server.Close()

	oldURL := ChromeDebURL
	ChromeDebURL = server.URL + "/chrome.deb"
	defer func() { ChromeDebURL = oldURL }()

	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			// Nothing is installed yet.
			if name == "dpkg-query" || (name == "snap" && args[0] == "list") {
				return "", errors.New("not installed")
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"browsers"}))
	assert.FileExists(t, filepath.Join(s.DownloadDir, "google-chrome-stable_current_amd64.deb"))
	assert.True(t, called(mock.Calls, "google-chrome-stable_current_amd64.deb"))
	assert.True(t, called(mock.Calls, "snap install firefox"))
	assert.True(t, called(mock.Calls, "snap install chromium"))
}

func TestBrowsers_SkipsChromeOnArm(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "dpkg-query" {
				return "", errors.New("not installed")
			}
			if name == "snap" && args[0] == "list" {
				return args[1], nil
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)
	s.System.Arch = "arm64"

	var steps []string
	s.OnStep = func(group, msg string) { steps = append(steps, msg) }

	require.NoError(t, s.Run(context.Background(), []string{"browsers"}))
	assert.Contains(t, steps, "skipping Google Chrome (arm64 not supported)")
	assert.False(t, called(mock.Calls, ".deb"))
}

func TestPostgres(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "dpkg-query" {
				return "", errors.New("not installed")
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"postgres"}))
	assert.True(t, called(mock.Calls, "postgresql postgresql-contrib libpq-dev"))
	assert.True(t, called(mock.Calls, "systemctl enable --now postgresql"))
}

func TestPrompt_StarshipPresent(t *testing.T) {
	mock := &MockExecutor{}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	assert.False(t, called(mock.Calls, "starship.rs"))

	block, ok := shellrc.Block(s.RcPath, "prompt")
	require.True(t, ok)
	assert.Contains(t, block, "starship init bash")
}

func TestPrompt_InstallsStarship(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "starship" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
	}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	assert.True(t, called(mock.Calls, "starship.rs/install.sh"))
}

func TestPrompt_FallbackPS1(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "starship" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
		RunFunc: func(name string, args ...string) (string, error) {
			if strings.Contains(strings.Join(args, " "), "starship.rs") {
				return "", errors.New("network down")
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	block, ok := shellrc.Block(s.RcPath, "prompt")
	require.True(t, ok)
	assert.Contains(t, block, "parse_git_branch")
}

func TestPrompt_Idempotent(t *testing.T) {
	s := newTestSetup(t, &MockExecutor{})

	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))
	require.NoError(t, s.Run(context.Background(), []string{"prompt"}))

	data, err := os.ReadFile(s.RcPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), shellrc.BeginMarker("prompt")))
}

func TestGnome_SkipsNonGnomeSession(t *testing.T) {
	mock := &MockExecutor{}
	s := newTestSetup(t, mock)
	s.Getenv = func(key string) string {
		if key == "XDG_CURRENT_DESKTOP" {
			return "KDE"
		}
		return ""
	}

	var steps []string
	s.OnStep = func(group, msg string) { steps = append(steps, msg) }

	require.NoError(t, s.Run(context.Background(), []string{"gnome"}))
	assert.Contains(t, steps, "not a GNOME session, skipping")
	assert.Empty(t, mock.Calls)
}

func TestGnome_AppliesSettings(t *testing.T) {
	mock := &MockExecutor{}
	s := newTestSetup(t, mock)
	s.Getenv = func(key string) string {
		if key == "XDG_CURRENT_DESKTOP" {
			return "ubuntu:GNOME"
		}
		return ""
	}

	require.NoError(t, s.Run(context.Background(), []string{"gnome"}))
	assert.True(t, called(mock.Calls, "gsettings set org.gnome.desktop.interface color-scheme prefer-dark"))
	assert.True(t, called(mock.Calls, "tap-to-click true"))
	assert.True(t, called(mock.Calls, "favorite-apps"))
}

func TestRun_AggregatesFailures(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "dpkg-query" {
				return "install ok installed", nil
			}
			if name == "systemctl" {
				return "", errors.New("unit not found")
			}
			return "", nil
		},
	}
	s := newTestSetup(t, mock)
	s.Getenv = func(key string) string {
		if key == "XDG_CURRENT_DESKTOP" {
			return "GNOME"
		}
		return ""
	}

	err := s.Run(context.Background(), []string{"postgres", "gnome"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres:")
	// gnome still ran despite the postgres failure.
	assert.True(t, called(mock.Calls, "gsettings set"))
}
