package doctor

import (
	"os"
	"sync"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// EnvGetter is an interface for getting environment variables (allows testing).
type EnvGetter interface {
	Getenv(key string) string
}

// RealEnvGetter gets environment variables from the real environment.
type RealEnvGetter struct{}

// Getenv gets an environment variable.
func (e *RealEnvGetter) Getenv(key string) string {
	return os.Getenv(key)
}

// Checker provides environment checking functionality.
type Checker struct {
	executor execx.CommandExecutor
	env      EnvGetter
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker() *Checker {
	return &Checker{
		executor: &execx.RealExecutor{},
		env:      &RealEnvGetter{},
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec execx.CommandExecutor, env EnvGetter) *Checker {
	return &Checker{
		executor: exec,
		env:      env,
	}
}

// CheckAll runs all checks and returns groups with results.
func (c *Checker) CheckAll() []CheckGroup {
	groups := GetGroups()
	result := make([]CheckGroup, len(groups))

	for i, group := range groups {
		result[i] = c.CheckGroup(group.ID)
	}

	return result
}

// CheckAllAsync runs all check groups concurrently.
func (c *Checker) CheckAllAsync() []CheckGroup {
	groups := GetGroups()
	result := make([]CheckGroup, len(groups))
	var wg sync.WaitGroup

	for i, group := range groups {
		wg.Add(1)
		go func(idx int, g CheckGroup) {
			defer wg.Done()
			result[idx] = c.CheckGroup(g.ID)
		}(i, group)
	}

	wg.Wait()
	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.runCheck(checkID))
	}

	return group
}

// runCheck runs a specific check by ID.
func (c *Checker) runCheck(checkID string) Check {
	switch checkID {
	case IDApt:
		return CheckApt(c.executor)
	case IDSnap:
		return CheckSnap(c.executor)
	case IDSudo:
		return CheckSudo(c.executor)
	case IDXdgMime:
		return CheckXdgMime(c.executor)
	case IDDesktopDatabase:
		return CheckDesktopDatabase(c.executor)
	case IDIconCache:
		return CheckIconCache(c.executor)
	case IDGsettings:
		return CheckGsettings(c.executor, c.env)
	case IDGnomeExtensions:
		return CheckGnomeExtensions(c.executor)
	case IDExportfs:
		return CheckExportfs(c.executor)
	case IDMountNFS:
		return CheckMountNFS(c.executor)
	case IDSystemctl:
		return CheckSystemctl(c.executor)
	case IDDocker:
		return CheckDocker(c.executor)
	case IDPsql:
		return CheckPsql(c.executor)
	case IDGit:
		return CheckGit(c.executor)
	case IDStarship:
		return CheckStarship(c.executor)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// GetCheck runs a single check by ID.
func (c *Checker) GetCheck(checkID string) Check {
	return c.runCheck(checkID)
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func (c *Checker) GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any checks have issues.
func (c *Checker) HasIssues(groups []CheckGroup) bool {
	summary := c.GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}
