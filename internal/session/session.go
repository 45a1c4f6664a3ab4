// Package session tracks the front-end's small mutable state: the current
// document, the current folder, the editor zoom level and the dirty flag.
package session

import "github.com/mkern/scribe/internal/paths"

const (
	zoomDefault = 100
	zoomMin     = 30
	zoomMax     = 400
	zoomStep    = 10
)

// State holds non-owning references into the current paths snapshot. After
// every snapshot replacement Resync must run before the references are
// read again.
type State struct {
	doc *paths.Node
	dir *paths.Node

	zoom  int
	dirty bool
}

// New returns a fresh session with the default zoom level.
func New() *State {
	return &State{zoom: zoomDefault}
}

func (s *State) SetCurrentDocument(n *paths.Node) { s.doc = n }
func (s *State) SetCurrentFolder(n *paths.Node)   { s.dir = n }
func (s *State) CurrentDocument() *paths.Node     { return s.doc }
func (s *State) CurrentFolder() *paths.Node       { return s.dir }

// Resync re-resolves both references against a new snapshot by their
// prior identifiers. A reference whose identifier vanished becomes nil.
// When no folder was current, the new snapshot's root becomes current.
func (s *State) Resync(ix *paths.Index) {
	if s.doc != nil {
		s.doc = ix.Find(s.doc.ID)
	}
	if s.dir != nil {
		s.dir = ix.Find(s.dir.ID)
	}
	if s.dir == nil {
		s.dir = ix.Root()
	}
}

// MarkDirty records an unsaved modification. It reports true only on the
// first call of a dirty episode, so the host is notified once per episode.
func (s *State) MarkDirty() bool {
	if s.dirty {
		return false
	}
	s.dirty = true
	return true
}

// MarkClean ends the current dirty episode, typically after a save.
func (s *State) MarkClean() { s.dirty = false }

// Dirty reports whether unsaved modifications exist.
func (s *State) Dirty() bool { return s.dirty }

// Zoom returns the current zoom percentage.
func (s *State) Zoom() int { return s.zoom }

// SetZoom installs a zoom level, clamped. A zero value (no stored
// preference) keeps the default.
func (s *State) SetZoom(z int) int {
	if z != 0 {
		s.zoom = clampZoom(z)
	}
	return s.zoom
}

// ZoomIn raises the zoom one step, clamped.
func (s *State) ZoomIn() int {
	s.zoom = clampZoom(s.zoom + zoomStep)
	return s.zoom
}

// ZoomOut lowers the zoom one step, clamped.
func (s *State) ZoomOut() int {
	s.zoom = clampZoom(s.zoom - zoomStep)
	return s.zoom
}

// ZoomReset restores the default zoom.
func (s *State) ZoomReset() int {
	s.zoom = zoomDefault
	return s.zoom
}

func clampZoom(z int) int {
	if z < zoomMin {
		return zoomMin
	}
	if z > zoomMax {
		return zoomMax
	}
	return z
}
