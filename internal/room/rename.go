package room

import (
	"fmt"
	"os"
	"path/filepath"

	rerrors "github.com/zhubert/rooms/internal/errors"
)

// Rename and delete rejections.
var (
	ErrRoomNotFound = rerrors.New("room not found")
	ErrSameName     = rerrors.New("new name is the same as the current name")
	ErrNameExists   = rerrors.New("a room with that name already exists")
	ErrPathExists   = rerrors.New("destination path already exists")
	ErrPrimary      = rerrors.New("the primary worktree cannot be renamed or deleted")
)

// RenamePlan is a validated rename, ready to be handed to git.
type RenamePlan struct {
	From    View
	NewName string
	NewPath string
}

// PlanRename validates renaming the room called oldName to newName. The new
// worktree lives at roomsDir/newName. pathExists may be nil to use the
// filesystem.
func PlanRename(views []View, roomsDir, oldName, newName string, pathExists func(string) bool) (RenamePlan, error) {
	const op = rerrors.Op("room.PlanRename")

	if err := Validate(newName); err != nil {
		return RenamePlan{}, err
	}
	if oldName == newName {
		return RenamePlan{}, rerrors.E(op, rerrors.KindInvalid, ErrSameName)
	}

	idx := FindByName(views, oldName)
	if idx < 0 || views[idx].Pending {
		return RenamePlan{}, rerrors.E(op, rerrors.KindNotFound, oldName, ErrRoomNotFound)
	}
	from := views[idx]
	if from.IsPrimary {
		return RenamePlan{}, rerrors.E(op, rerrors.KindInvalid, ErrPrimary)
	}
	if FindByName(views, newName) >= 0 {
		return RenamePlan{}, rerrors.E(op, rerrors.KindInvalid, newName, ErrNameExists)
	}

	newPath := filepath.Join(roomsDir, newName)
	if pathExists == nil {
		pathExists = exists
	}
	if pathExists(newPath) {
		return RenamePlan{}, rerrors.E(op, rerrors.KindInvalid, newPath, ErrPathExists)
	}

	return RenamePlan{From: from, NewName: newName, NewPath: newPath}, nil
}

// CheckDeletable rejects deleting the primary worktree or a pending room
// that has no worktree yet.
func CheckDeletable(v View) error {
	const op = rerrors.Op("room.CheckDeletable")
	if v.IsPrimary {
		return rerrors.E(op, rerrors.KindInvalid, ErrPrimary)
	}
	if v.Pending {
		return rerrors.E(op, rerrors.KindInvalid, fmt.Sprintf("room %s has no worktree yet", v.Name))
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
