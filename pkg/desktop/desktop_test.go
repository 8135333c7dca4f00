package desktop

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
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

func TestEntry_Render(t *testing.T) {
	entry := &Entry{
		Name:           "Bambu Studio",
		Comment:        "3D printing slicer",
		Exec:           "/opt/bambu-studio/BambuStudio.AppImage %U",
		Icon:           "bambu-studio",
		Categories:     []string{"Graphics", "3DGraphics"},
		MimeTypes:      []string{"model/3mf", "model/stl"},
		StartupWMClass: "BambuStudio",
	}

	out := entry.Render()

	assert.True(t, strings.HasPrefix(out, "[Desktop Entry]\n"))
	assert.Contains(t, out, "Type=Application\n")
	assert.Contains(t, out, "Name=Bambu Studio\n")
	assert.Contains(t, out, "Exec=/opt/bambu-studio/BambuStudio.AppImage %U\n")
	assert.Contains(t, out, "Terminal=false\n")
	assert.Contains(t, out, "Categories=Graphics;3DGraphics;\n")
	assert.Contains(t, out, "MimeType=model/3mf;model/stl;\n")
	assert.Contains(t, out, "StartupWMClass=BambuStudio\n")
	assert.NotContains(t, out, "GenericName=")
}

func TestEntry_RenderDeterministic(t *testing.T) {
	entry := &Entry{Name: "Cursor", Exec: "cursor %F"}
	assert.Equal(t, entry.Render(), entry.Render())
}

func TestEntry_Validate(t *testing.T) {
	assert.Error(t, (&Entry{Exec: "x"}).Validate())
	assert.Error(t, (&Entry{Name: "x"}).Validate())
	assert.NoError(t, (&Entry{Name: "x", Exec: "y"}).Validate())
}

func TestEntry_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications", "cursor.desktop")
	entry := &Entry{Name: "Cursor", Exec: "cursor %F"}

	require.NoError(t, entry.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name=Cursor")
}

func TestMimeType_Render(t *testing.T) {
	m := &MimeType{
		Type:    "model/3mf",
		Comment: "3D Manufacturing Format",
		Globs:   []string{"*.3mf"},
	}

	out, err := m.Render()
	require.NoError(t, err)

	assert.Contains(t, out, `<mime-info xmlns="http://www.freedesktop.org/standards/shared-mime-info">`)
	assert.Contains(t, out, `<mime-type type="model/3mf">`)
	assert.Contains(t, out, "<comment>3D Manufacturing Format</comment>")
	assert.Contains(t, out, `<glob pattern="*.3mf">`)
}

func TestMimeType_Filename(t *testing.T) {
	assert.Equal(t, "model-3mf.xml", (&MimeType{Type: "model/3mf"}).Filename())
	assert.Equal(t, "application-sla.xml", (&MimeType{Type: "application/sla"}).Filename())
}

func TestMimeType_RenderRequiresType(t *testing.T) {
	_, err := (&MimeType{}).Render()
	assert.Error(t, err)
}

func TestIntegrator_Paths(t *testing.T) {
	dir := t.TempDir()
	i := NewIntegratorWithDataDir(execx.NewRunner(&MockExecutor{}), dir)

	assert.Equal(t, filepath.Join(dir, "applications"), i.ApplicationsDir())
	assert.Equal(t, filepath.Join(dir, "mime", "packages"), i.MimePackagesDir())
	assert.Equal(t, filepath.Join(dir, "icons", "hicolor", "512x512", "apps"), i.IconDir(512))
	assert.Equal(t, filepath.Join(dir, "icons", "hicolor", "scalable", "apps"), i.IconDir(0))
}

func TestIntegrator_InstallAndRemoveEntry(t *testing.T) {
	dir := t.TempDir()
	i := NewIntegratorWithDataDir(execx.NewRunner(&MockExecutor{}), dir)

	path, err := i.InstallEntry("cursor", &Entry{Name: "Cursor", Exec: "cursor %F"})
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, i.RemoveEntry("cursor"))
	assert.NoFileExists(t, path)

	// Removing again is a no-op.
	require.NoError(t, i.RemoveEntry("cursor"))
}

func TestIntegrator_InstallMimeType(t *testing.T) {
	dir := t.TempDir()
	i := NewIntegratorWithDataDir(execx.NewRunner(&MockExecutor{}), dir)

	path, err := i.InstallMimeType(&MimeType{Type: "model/3mf", Comment: "3MF", Globs: []string{"*.3mf"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mime", "packages", "model-3mf.xml"), path)
	assert.FileExists(t, path)
}

func TestIntegrator_SetDefaultApp(t *testing.T) {
	mock := &MockExecutor{}
	i := NewIntegratorWithDataDir(execx.NewRunner(mock), t.TempDir())

	require.NoError(t, i.SetDefaultApp("model/3mf", "bambu-studio"))
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "xdg-mime default bambu-studio.desktop model/3mf", mock.Calls[0])
}

func TestIntegrator_InstallIcon(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0644))

	i := NewIntegratorWithDataDir(execx.NewRunner(&MockExecutor{}), dir)

	dest, err := i.InstallIcon(src, "cursor", 512)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(i.IconDir(512), "cursor.png"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestIntegrator_UpdateDatabasesSkipsMissingTools(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "update-desktop-database" {
				return "/usr/bin/update-desktop-database", nil
			}
			return "", errors.New("not found")
		},
	}
	i := NewIntegratorWithDataDir(execx.NewRunner(mock), t.TempDir())

	i.UpdateDatabases()

	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0], "update-desktop-database")
}

func TestIntegrator_SetDefaultAppMissingXdgMime(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}
	i := NewIntegratorWithDataDir(execx.NewRunner(mock), t.TempDir())

	err := i.SetDefaultApp("model/3mf", "bambu-studio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xdg-mime not found")
	assert.Contains(t, err.Error(), "xdg-utils")
	assert.Empty(t, mock.Calls)
}

func TestIntegrator_UpdateDatabasesRunsDetectedTools(t *testing.T) {
	mock := &MockExecutor{}
	i := NewIntegratorWithDataDir(execx.NewRunner(mock), t.TempDir())

	i.UpdateDatabases()

	require.Len(t, mock.Calls, 3)
	assert.Contains(t, mock.Calls[0], "update-desktop-database")
	assert.Contains(t, mock.Calls[1], "update-mime-database")
	assert.Contains(t, mock.Calls[2], "gtk-update-icon-cache")
}

func TestIntegrator_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	i := NewIntegratorWithDataDir(execx.NewRunner(execx.NewDryRunExecutor()), dir)

	entryPath, err := i.InstallEntry("cursor", &Entry{Name: "Cursor", Exec: "cursor %F"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "applications", "cursor.desktop"), entryPath)
	assert.NoFileExists(t, entryPath)

	mimePath, err := i.InstallMimeType(&MimeType{Type: "model/3mf", Globs: []string{"*.3mf"}})
	require.NoError(t, err)
	assert.NoFileExists(t, mimePath)

	require.NoError(t, i.RemoveEntry("cursor"))
}

func TestToolChain_Detect(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			switch file {
			case "xdg-mime", "gsettings":
				return "/usr/bin/" + file, nil
			default:
				return "", errors.New("not found")
			}
		},
	}

	tc := NewToolChain(mock)
	require.NoError(t, tc.Detect())

	assert.Equal(t, "/usr/bin/xdg-mime", tc.XdgMimePath)
	assert.True(t, tc.HasGNOME())
	assert.Contains(t, tc.InstallInstructions(), "desktop-file-utils")
}

func TestToolChain_DetectMissingXdgMime(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	tc := NewToolChain(mock)
	assert.Error(t, tc.Detect())
}
