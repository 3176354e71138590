package room

import (
	"sort"
	"strings"

	"github.com/zhubert/rooms/internal/git"
)

// View is one room as rendered by the UI.
type View struct {
	Name           string
	Path           string
	Branch         string // empty when detached
	Status         Status
	LastError      string
	Section        Section
	IsPrimary      bool
	IsPrunable     bool
	PrunableReason string
	IsLocked       bool
	HasSession     bool

	// Pending views come from the overlay alone: a create still in flight,
	// or one that failed before git reported the worktree.
	Pending bool
}

// Reconcile merges the git snapshot with the overlay and the set of paths
// that have a live session. It is pure: the result depends only on its
// inputs, and none of them are modified.
func Reconcile(snapshot []git.SnapshotEntry, overlay Overlay, sessions map[string]bool) []View {
	views := make([]View, 0, len(snapshot)+len(overlay))
	seen := make(map[string]bool, len(snapshot))

	for _, entry := range snapshot {
		if seen[entry.Path] {
			continue
		}
		seen[entry.Path] = true

		v := View{
			Name:           entry.Name(),
			Path:           entry.Path,
			Branch:         entry.Branch,
			IsPrimary:      entry.IsPrimary,
			IsPrunable:     entry.IsPrunable,
			PrunableReason: entry.PrunableReason,
			IsLocked:       entry.IsLocked,
			HasSession:     sessions[entry.Path],
		}

		ov, hasOverlay := overlay[entry.Path]
		switch {
		case entry.IsPrunable:
			v.Status = StatusOrphaned
		case hasOverlay:
			v.Status = ov.Status
		case v.HasSession:
			v.Status = StatusReady
		default:
			v.Status = StatusIdle
		}
		if hasOverlay {
			v.LastError = ov.LastError
		}
		v.Section = sectionFor(v)
		views = append(views, v)
	}

	for path, ov := range overlay {
		if seen[path] || !ov.Create {
			continue
		}
		v := View{
			Name:       ov.name(path),
			Path:       path,
			Branch:     ov.Branch,
			Status:     ov.Status,
			LastError:  ov.LastError,
			HasSession: sessions[path],
			Pending:    true,
		}
		v.Section = sectionFor(v)
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.IsPrimary != b.IsPrimary {
			return a.IsPrimary
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Path < b.Path
	})
	return views
}

func sectionFor(v View) Section {
	switch {
	case v.Status == StatusError || v.Status == StatusOrphaned || v.LastError != "":
		return SectionFailed
	case v.HasSession:
		return SectionActive
	default:
		return SectionInactive
	}
}

// Group is a non-empty run of views sharing a section.
type Group struct {
	Section Section
	Views   []View
}

// Groups splits sorted views into their sections, omitting empty ones.
func Groups(views []View) []Group {
	var groups []Group
	for _, v := range views {
		if n := len(groups); n > 0 && groups[n-1].Section == v.Section {
			groups[n-1].Views = append(groups[n-1].Views, v)
			continue
		}
		groups = append(groups, Group{Section: v.Section, Views: []View{v}})
	}
	return groups
}

// FindByName returns the index of the view named name, or -1.
func FindByName(views []View, name string) int {
	for i, v := range views {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// FindByPath returns the index of the view at path, or -1.
func FindByPath(views []View, path string) int {
	for i, v := range views {
		if v.Path == path {
			return i
		}
	}
	return -1
}

// NameSet returns the names of all views, for collision checks.
func NameSet(views []View) map[string]bool {
	names := make(map[string]bool, len(views))
	for _, v := range views {
		names[v.Name] = true
	}
	return names
}
