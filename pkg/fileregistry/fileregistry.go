// Package fileregistry provides the boundary interface between a workflow's
// source/source_csv/source_optional nodes and wherever uploaded input files
// actually live, plus a small in-memory implementation useful for tests and
// single-process deployments.
package fileregistry

import (
	"context"
	"sync"
)

// Registry resolves a workflow's logical file_id (plus the identity of the
// caller requesting it) to an absolute filesystem path. A caller that is
// not entitled to a file, or a file_id with no mapping, returns ok=false
// rather than an error: the source operators turn that into a file_not_found
// operator error, not an internal one.
type Registry interface {
	Resolve(ctx context.Context, fileID string, callerIdentity string) (path string, ok bool)
}

// Static is an in-memory Registry backed by a fixed file_id -> path map,
// shared by every caller identity. It is the reference implementation used
// by tests and by cmd/gridflow's single-user mode.
type Static struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewStatic builds a Static registry from an initial file_id -> path map.
// A nil map starts the registry empty.
func NewStatic(files map[string]string) *Static {
	s := &Static{files: make(map[string]string, len(files))}
	for k, v := range files {
		s.files[k] = v
	}
	return s
}

// Set registers (or overwrites) the path for a file_id.
func (s *Static) Set(fileID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileID] = path
}

// Resolve implements Registry. Every caller identity is treated as
// entitled to every registered file_id: Static carries no per-caller ACL.
func (s *Static) Resolve(_ context.Context, fileID string, _ string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.files[fileID]
	return path, ok
}
