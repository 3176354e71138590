package room

// Status is the lifecycle state of a room.
type Status int

const (
	StatusIdle Status = iota
	StatusCreating
	StatusPostCreateRunning
	StatusReady
	StatusError
	StatusDeleting
	StatusOrphaned
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCreating:
		return "creating"
	case StatusPostCreateRunning:
		return "post-create"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusDeleting:
		return "deleting"
	case StatusOrphaned:
		return "orphaned"
	default:
		return "unknown"
	}
}

// Icon returns the sidebar glyph for the status.
func (s Status) Icon() string {
	switch s {
	case StatusCreating, StatusPostCreateRunning, StatusDeleting:
		return "◐"
	case StatusReady:
		return "●"
	case StatusError:
		return "!"
	case StatusOrphaned:
		return "?"
	default:
		return "○"
	}
}

// InFlight reports whether a background operation owns the room.
func (s Status) InFlight() bool {
	return s == StatusCreating || s == StatusPostCreateRunning || s == StatusDeleting
}

// Section groups rooms in the sidebar. Sections render in declaration order.
type Section int

const (
	SectionActive Section = iota
	SectionInactive
	SectionFailed
)

func (s Section) String() string {
	switch s {
	case SectionActive:
		return "Active"
	case SectionInactive:
		return "Inactive"
	default:
		return "Failed"
	}
}
