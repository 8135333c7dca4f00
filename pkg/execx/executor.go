// Package execx provides the command execution seam used by installers,
// setup groups, and doctor checks. Everything that shells out goes through
// a CommandExecutor so tests can substitute a mock and --dry-run can
// substitute a recorder.
package execx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandExecutor is an interface for executing commands, allowing for testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	CombinedOutput(name string, args ...string) ([]byte, error)
	FileExists(path string) bool
}

// RealExecutor is the default command executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		// Some tools report useful context only on stderr
		if stderr.Len() > 0 {
			return stderr.String(), err
		}
		return stdout.String(), err
	}
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// CombinedOutput runs a command and returns combined stdout and stderr.
func (e *RealExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// FileExists checks if a file exists.
func (e *RealExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DryRunExecutor records commands instead of executing them. LookPath and
// FileExists still consult the real system so that dry runs report an
// accurate plan.
type DryRunExecutor struct {
	mu       sync.Mutex
	real     RealExecutor
	commands []string
}

// NewDryRunExecutor creates a new DryRunExecutor.
func NewDryRunExecutor() *DryRunExecutor {
	return &DryRunExecutor{}
}

// LookPath finds the path to an executable on the real system.
func (e *DryRunExecutor) LookPath(file string) (string, error) {
	return e.real.LookPath(file)
}

// Run records the command and reports success.
func (e *DryRunExecutor) Run(name string, args ...string) (string, error) {
	e.record(name, args...)
	return "", nil
}

// CombinedOutput records the command and reports success.
func (e *DryRunExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	e.record(name, args...)
	return nil, nil
}

// FileExists checks the real filesystem.
func (e *DryRunExecutor) FileExists(path string) bool {
	return e.real.FileExists(path)
}

// Commands returns the commands recorded so far.
func (e *DryRunExecutor) Commands() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.commands))
	copy(out, e.commands)
	return out
}

func (e *DryRunExecutor) record(name string, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

// CommandError wraps a failed command with its output for error reporting.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Command, e.Err, strings.TrimSpace(e.Output))
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
