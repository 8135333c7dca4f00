package nfs

import (
	"fmt"

	"github.com/jaspreet-dot-casa/deskctl/pkg/backup"
	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
)

// ExportsPath is the exports file Setup edits; NewServerWithPath targets
// another file.
const ExportsPath = "/etc/exports"

// serverPackages are required for serving NFS on Debian derivatives.
var serverPackages = []string{"nfs-kernel-server"}

// Server configures the host as an NFS server.
type Server struct {
	runner      *execx.Runner
	exportsPath string
}

// NewServer creates a Server using the default exports path.
func NewServer(runner *execx.Runner) *Server {
	return &Server{runner: runner, exportsPath: ExportsPath}
}

// NewServerWithPath creates a Server writing to a custom exports file.
func NewServerWithPath(runner *execx.Runner, exportsPath string) *Server {
	return &Server{runner: runner, exportsPath: exportsPath}
}

// Setup installs the server packages, registers the exports, and enables
// the NFS service. Already-present exports are left untouched.
func (s *Server) Setup(exports []*Export) error {
	if len(exports) == 0 {
		return fmt.Errorf("no exports given")
	}

	if !s.runner.DpkgInstalled("nfs-kernel-server") {
		if err := s.runner.AptUpdate(); err != nil {
			return err
		}
		if err := s.runner.AptInstall(serverPackages...); err != nil {
			return err
		}
	}

	for _, e := range exports {
		if err := s.runner.MkdirAll(e.Dir); err != nil {
			return err
		}
	}

	content, err := readFileOrEmpty(s.exportsPath)
	if err != nil {
		return err
	}

	updated, added := appendExports(content, exports)
	if added > 0 {
		backupPath, err := backup.CreateWith(s.runner, s.exportsPath)
		if err != nil {
			return fmt.Errorf("failed to back up exports: %w", err)
		}
		if backupPath != "" {
			logx.Log.Info().Str("backup", backupPath).Msg("backed up exports file")
		}

		if err := s.runner.WriteFile(s.exportsPath, []byte(updated), 0644); err != nil {
			return err
		}
	} else {
		logx.Log.Info().Msg("all exports already present")
	}

	if _, err := s.runner.Sudo("exportfs", "-ra"); err != nil {
		return fmt.Errorf("failed to reload exports: %w", err)
	}

	if err := s.runner.EnableService("nfs-kernel-server"); err != nil {
		return err
	}

	return nil
}
