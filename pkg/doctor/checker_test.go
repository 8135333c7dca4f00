package doctor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// MockExecutor is a mock command executor for testing.
type MockExecutor struct {
	LookPathFunc   func(file string) (string, error)
	RunFunc        func(name string, args ...string) (string, error)
	FileExistsFunc func(path string) bool
	Calls          []string
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

func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return false
}

// MockEnvGetter returns canned environment variables.
type MockEnvGetter struct {
	Vars map[string]string
}

func (m *MockEnvGetter) Getenv(key string) string {
	return m.Vars[key]
}

func gnomeEnv() *MockEnvGetter {
	return &MockEnvGetter{Vars: map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}}
}

func TestCheckGit_Installed(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "git version 2.43.0", nil
		},
	}

	check := CheckGit(mock)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "2.43.0", check.Message)
}

func TestCheckGit_Missing(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	check := CheckGit(mock)
	assert.Equal(t, StatusMissing, check.Status)
	require.NotNil(t, check.FixCommand)
	assert.Contains(t, check.FixCommand.Command, "git")
}

func TestCheckApt_MissingIsError(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	check := CheckApt(mock)
	assert.Equal(t, StatusError, check.Status)
	assert.Nil(t, check.FixCommand)
}

func TestCheckDesktopDatabase_MissingIsWarning(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	check := CheckDesktopDatabase(mock)
	assert.Equal(t, StatusWarning, check.Status)
}

func TestCheckGsettings_NonGnomeDesktop(t *testing.T) {
	mock := &MockExecutor{}
	env := &MockEnvGetter{Vars: map[string]string{"XDG_CURRENT_DESKTOP": "KDE"}}

	check := CheckGsettings(mock, env)
	assert.Equal(t, StatusWarning, check.Status)
	assert.Contains(t, check.Message, "not GNOME")
}

func TestCheckGsettings_Gnome(t *testing.T) {
	check := CheckGsettings(&MockExecutor{}, gnomeEnv())
	assert.Equal(t, StatusOK, check.Status)
}

func TestCheckExportfs_SbinFallback(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
		FileExistsFunc: func(path string) bool {
			return path == "/usr/sbin/exportfs"
		},
	}

	check := CheckExportfs(mock)
	assert.Equal(t, StatusOK, check.Status)
}

func TestCheckDocker_DaemonNotRunning(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" {
				return "inactive", errors.New("exit status 3")
			}
			return "", nil
		},
	}

	check := CheckDocker(mock)
	assert.Equal(t, StatusWarning, check.Status)
}

func TestCheckDocker_Running(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" {
				return "active\n", nil
			}
			return "", nil
		},
	}

	check := CheckDocker(mock)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "running", check.Message)
}

func TestChecker_CheckAll(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" && len(args) > 0 && args[0] == "is-active" {
				return "active", nil
			}
			return "version 1.0.0", nil
		},
	}, gnomeEnv())

	groups := checker.CheckAll()
	require.Len(t, groups, 4)
	assert.Equal(t, GroupSystem, groups[0].ID)
	assert.Equal(t, GroupDesktop, groups[1].ID)
	assert.Equal(t, GroupNFS, groups[2].ID)
	assert.Equal(t, GroupDev, groups[3].ID)

	for _, group := range groups {
		assert.NotEmpty(t, group.Checks, "group %s has no checks", group.ID)
		for _, check := range group.Checks {
			assert.Equal(t, StatusOK, check.Status, "check %s", check.ID)
		}
	}
}

func TestChecker_CheckAllAsync(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "active", nil
		},
	}, gnomeEnv())

	sync := checker.CheckAll()
	async := checker.CheckAllAsync()
	require.Len(t, async, len(sync))
	for i := range sync {
		assert.Equal(t, sync[i].ID, async[i].ID)
		assert.Len(t, async[i].Checks, len(sync[i].Checks))
	}
}

func TestChecker_CheckGroup_Unknown(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{}, gnomeEnv())
	group := checker.CheckGroup("nope")
	assert.Equal(t, "Unknown", group.Name)
	assert.Empty(t, group.Checks)
}

func TestChecker_GetSummary(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{}, gnomeEnv())
	groups := []CheckGroup{
		{Checks: []Check{
			{Status: StatusOK},
			{Status: StatusMissing},
			{Status: StatusWarning},
			{Status: StatusError},
		}},
	}

	summary := checker.GetSummary(groups)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, 1, summary.Errors)
	assert.True(t, checker.HasIssues(groups))
}

func TestChecker_HasIssues_WarningsOnly(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{}, gnomeEnv())
	groups := []CheckGroup{{Checks: []Check{{Status: StatusOK}, {Status: StatusWarning}}}}
	assert.False(t, checker.HasIssues(groups))
}

func TestGetFixCommand(t *testing.T) {
	fix := GetFixCommand(IDMountNFS)
	require.NotNil(t, fix)
	assert.Contains(t, fix.Command, "nfs-common")
	assert.True(t, fix.Sudo)

	assert.Nil(t, GetFixCommand("unknown"))
	assert.Nil(t, GetFixCommand(IDApt))
}

func TestFixer_Fix(t *testing.T) {
	mock := &MockExecutor{}
	fixer := NewFixerWithRunner(execx.NewRunner(mock))

	check := Check{ID: IDGit, FixCommand: GetFixCommand(IDGit)}
	require.NoError(t, fixer.Fix(check))
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0], "apt-get install -y git")
}

func TestFixer_Fix_NoFixAvailable(t *testing.T) {
	fixer := NewFixerWithRunner(execx.NewRunner(&MockExecutor{}))
	err := fixer.Fix(Check{ID: IDApt})
	assert.Error(t, err)
}

func TestFixer_FixAll_CollectsErrors(t *testing.T) {
	mock := &MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			for _, a := range args {
				if strings.Contains(a, "git") {
					return "", errors.New("boom")
				}
			}
			return "", nil
		},
	}
	fixer := NewFixerWithRunner(execx.NewRunner(mock))

	groups := []CheckGroup{{Checks: []Check{
		{ID: IDGit, Status: StatusMissing, FixCommand: GetFixCommand(IDGit)},
		{ID: IDPsql, Status: StatusMissing, FixCommand: GetFixCommand(IDPsql)},
		{ID: IDSnap, Status: StatusOK, FixCommand: GetFixCommand(IDSnap)},
	}}}

	err := fixer.FixAll(groups)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fix git")
	// OK checks are skipped, failed git plus successful psql leaves two calls.
	assert.Len(t, mock.Calls, 2)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "error", StatusError.String())
}
