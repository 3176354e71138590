package room

import "path/filepath"

// OverlayEntry is a transient status that overrides what git reports.
type OverlayEntry struct {
	Status    Status
	LastError string

	// Create marks entries owned by a create operation. Such entries render
	// as pending rooms until git reports their worktree.
	Create bool
	Name   string
	Branch string
}

// Overlay maps room paths to transient state. It is owned by the event loop
// and is not safe for concurrent use.
type Overlay map[string]OverlayEntry

// Set records status for path, keeping create metadata already present.
func (o Overlay) Set(path string, status Status) {
	e := o[path]
	e.Status = status
	e.LastError = ""
	o[path] = e
}

// StartCreate records a create operation for a room that git does not know yet.
func (o Overlay) StartCreate(path, name, branch string) {
	o[path] = OverlayEntry{Status: StatusCreating, Create: true, Name: name, Branch: branch}
}

// SetError replaces the entry for path with an Error carrying msg.
func (o Overlay) SetError(path, msg string) {
	e := o[path]
	e.Status = StatusError
	e.LastError = msg
	o[path] = e
}

// Clear drops the entry for path.
func (o Overlay) Clear(path string) {
	delete(o, path)
}

// Get returns the entry for path.
func (o Overlay) Get(path string) (OverlayEntry, bool) {
	e, ok := o[path]
	return e, ok
}

func (e OverlayEntry) name(path string) string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(path)
}
