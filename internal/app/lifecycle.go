package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/git"
	"github.com/zhubert/rooms/internal/logger"
	"github.com/zhubert/rooms/internal/notification"
	"github.com/zhubert/rooms/internal/room"
	"github.com/zhubert/rooms/internal/terminal"
	"github.com/zhubert/rooms/internal/ui"
	"github.com/zhubert/rooms/internal/ui/modals"
)

type opKind int

const (
	opCreate opKind = iota
	opDelete
	opRename
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opDelete:
		return "delete"
	default:
		return "rename"
	}
}

// Operation is a background git operation owning one or more room paths.
type Operation struct {
	ID   string
	Kind opKind
	Path string
	Name string
}

// beginOp marks paths busy for a new operation. It fails with a busy error
// when any of them already has one in flight.
func (m *Model) beginOp(kind opKind, name string, paths ...string) (Operation, error) {
	for _, p := range paths {
		if _, ok := m.busy[p]; ok {
			return Operation{}, rerrors.Busy(rerrors.Op("app."+kind.String()), name)
		}
	}
	op := Operation{ID: uuid.NewString(), Kind: kind, Path: paths[0], Name: name}
	for _, p := range paths {
		m.busy[p] = op
	}
	logger.WithRoom(name).Info("operation started", "op", kind.String(), "id", op.ID)
	return op, nil
}

// endOp releases every path owned by op.
func (m *Model) endOp(op Operation) {
	for p, o := range m.busy {
		if o.ID == op.ID {
			delete(m.busy, p)
		}
	}
	logger.WithRoom(op.Name).Info("operation finished", "op", op.Kind.String(), "id", op.ID)
}

// isBusy reports whether path has an operation in flight.
func (m *Model) isBusy(path string) bool {
	_, ok := m.busy[path]
	return ok
}

// syncResult is a worktree listing taken off the event loop.
type syncResult struct {
	Snapshot []git.SnapshotEntry
	Err      error
}

// SyncResultMsg carries a refreshed snapshot. Manual marks a user-requested
// refresh.
type SyncResultMsg struct {
	Sync   syncResult
	Manual bool
}

type CreateResultMsg struct {
	Op     Operation
	Branch string
	Sync   syncResult
	Err    error
}

type PostCreateResultMsg struct {
	Op  Operation
	Err error
}

type PostEnterResultMsg struct {
	Path string
	Err  error
}

type DeleteResultMsg struct {
	Op   Operation
	Sync syncResult
	Err  error
}

type RenameResultMsg struct {
	Op      Operation
	NewName string
	NewPath string
	Sync    syncResult
	Err     error
}

type PruneResultMsg struct {
	Sync syncResult
	Err  error
}

// DirtyProbedMsg carries the uncommitted changes of a room about to be
// deleted.
type DirtyProbedMsg struct {
	View   room.View
	Status git.DirtyStatus
	Err    error
}

func (m *Model) resync(ctx context.Context) syncResult {
	snap, err := m.syncer.Sync(ctx)
	return syncResult{Snapshot: snap, Err: err}
}

func (m *Model) syncCmd(manual bool) tea.Cmd {
	return func() tea.Msg {
		return SyncResultMsg{Sync: m.resync(context.Background()), Manual: manual}
	}
}

// applySync replaces the snapshot with r unless the listing failed, in
// which case the previous snapshot stays.
func (m *Model) applySync(r syncResult) {
	if r.Err != nil {
		m.log.Warn("sync failed, keeping previous snapshot", "error", r.Err)
		return
	}
	m.snapshot = r.Snapshot
}

func (m *Model) handleSyncResult(msg SyncResultMsg) (tea.Model, tea.Cmd) {
	m.applySync(msg.Sync)
	m.refreshViews()
	if !msg.Manual {
		if msg.Sync.Err != nil {
			return m, m.ShowFlashError("Failed to list worktrees: " + rerrors.UserMessage(msg.Sync.Err))
		}
		return m, nil
	}
	if msg.Sync.Err != nil {
		return m, m.ShowFlashError("Failed to refresh rooms: " + rerrors.UserMessage(msg.Sync.Err))
	}
	return m, m.ShowFlashInfo("Rooms refreshed")
}

// notifyCmd sends a desktop notification when the config asks for them.
func (m *Model) notifyCmd(op Operation, err error) tea.Cmd {
	if !m.cfg.Notify {
		return nil
	}
	return func() tea.Msg {
		_ = notification.OperationFinished(op.Kind.String(), op.Name, err)
		return nil
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// nameTaken reports whether name is used by a room or an existing path in
// the rooms directory.
func (m *Model) nameTaken(name string) bool {
	return room.NameSet(m.views)[name] || pathExists(filepath.Join(m.roomsDir, name))
}

// quickCreate creates a room with a generated name and a same-named branch.
func (m *Model) quickCreate() (tea.Model, tea.Cmd) {
	name, err := room.GenerateUnique(m.nameTaken, m.rand)
	if err != nil {
		return m, m.ShowFlashError(rerrors.UserMessage(err))
	}
	return m.startCreate(name, name)
}

// showCreateModal opens the interactive name and branch prompt.
func (m *Model) showCreateModal() (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewCreateRoomState(m.cfg.BaseBranch))
	return m, nil
}

// resolveCreateName turns what was typed in the name step into a room name.
// An empty name is generated.
func (m *Model) resolveCreateName(input string) (string, error) {
	if input == "" {
		return room.GenerateUnique(m.nameTaken, m.rand)
	}
	name := room.Sanitize(input)
	if err := room.Validate(name); err != nil {
		return "", err
	}
	if m.nameTaken(name) {
		return "", rerrors.E(rerrors.Op("app.create"), rerrors.KindInvalid, name, room.ErrNameExists)
	}
	return name, nil
}

// startCreate records the pending room and adds its worktree in the
// background.
func (m *Model) startCreate(name, branch string) (tea.Model, tea.Cmd) {
	path := filepath.Join(m.roomsDir, name)
	op, err := m.beginOp(opCreate, name, path)
	if err != nil {
		return m, m.ShowFlashWarning(rerrors.UserMessage(err))
	}
	m.overlay.StartCreate(path, name, branch)
	m.refreshViews()
	m.selectPath(path)

	base := m.cfg.BaseBranch
	cmd := func() tea.Msg {
		ctx := context.Background()
		err := m.git.AddWorktree(ctx, m.primary, path, branch, base)
		if err != nil {
			m.events.Error(name, err)
		} else {
			m.events.RoomCreated(name)
		}
		return CreateResultMsg{Op: op, Branch: branch, Sync: m.resync(ctx), Err: err}
	}
	return m, tea.Batch(cmd, m.ShowFlashInfo("Creating room: "+name))
}

func (m *Model) handleCreateResult(msg CreateResultMsg) (tea.Model, tea.Cmd) {
	op := msg.Op
	m.applySync(msg.Sync)

	if msg.Err != nil {
		logger.WithRoom(op.Name).Error("create failed", "error", msg.Err)
		m.overlay.SetError(op.Path, rerrors.UserMessage(msg.Err))
		m.endOp(op)
		m.refreshViews()
		return m, tea.Batch(
			m.ShowFlashError("Failed to create room "+op.Name+": "+rerrors.UserMessage(msg.Err)),
			m.notifyCmd(op, msg.Err),
		)
	}

	cols, rows := ui.GetViewContext().ShellSize()
	sess, err := m.sessions.Open(op.Path, cols, rows)
	if err != nil {
		m.overlay.SetError(op.Path, rerrors.UserMessage(err))
		m.endOp(op)
		m.refreshViews()
		return m, m.ShowFlashError("Created room " + op.Name + " but could not start a shell: " + rerrors.UserMessage(err))
	}

	hooks := []string(m.cfg.Hooks.PostCreate)
	if len(hooks) > 0 && !m.skipPost {
		m.overlay.Set(op.Path, room.StatusPostCreateRunning)
		m.refreshViews()
		return m, m.postCreateCmd(op, sess, hooks)
	}
	return m.finishCreate(op)
}

func (m *Model) postCreateCmd(op Operation, sess *terminal.Session, hooks []string) tea.Cmd {
	return func() tea.Msg {
		m.events.PostCreateStarted(op.Name, len(hooks))
		err := terminal.RunHooks(sess, hooks)
		if err != nil {
			m.events.PostCreateFailed(op.Name, err)
		} else {
			m.events.PostCreateCompleted(op.Name)
		}
		return PostCreateResultMsg{Op: op, Err: err}
	}
}

func (m *Model) handlePostCreateResult(msg PostCreateResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		op := msg.Op
		logger.WithRoom(op.Name).Warn("post-create hooks failed", "error", msg.Err)
		m.overlay.SetError(op.Path, rerrors.UserMessage(msg.Err))
		m.endOp(op)
		m.refreshViews()
		return m, tea.Batch(
			m.ShowFlashError("Post-create hooks failed in "+op.Name+": "+rerrors.UserMessage(msg.Err)),
			m.notifyCmd(op, msg.Err),
		)
	}
	return m.finishCreate(msg.Op)
}

// finishCreate selects the new room and enters it.
func (m *Model) finishCreate(op Operation) (tea.Model, tea.Cmd) {
	m.overlay.Clear(op.Path)
	m.endOp(op)
	m.refreshViews()
	m.selectPath(op.Path)
	m.focusTerminal()
	m.refreshPane()
	return m, tea.Batch(
		m.ShowFlashSuccess("Created room: "+op.Name),
		m.postEnterCmd(op.Path),
		m.notifyCmd(op, nil),
	)
}

// postEnterCmd types the post_enter hooks into the shell at path.
func (m *Model) postEnterCmd(path string) tea.Cmd {
	hooks := []string(m.cfg.Hooks.PostEnter)
	sess := m.sessions.Get(path)
	if len(hooks) == 0 || sess == nil {
		return nil
	}
	return func() tea.Msg {
		return PostEnterResultMsg{Path: path, Err: terminal.RunHooks(sess, hooks)}
	}
}

func (m *Model) handlePostEnterResult(msg PostEnterResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	name := filepath.Base(msg.Path)
	m.events.Error(name, msg.Err)
	return m, m.ShowFlashWarning("Post-enter hooks failed in " + name + ": " + rerrors.UserMessage(msg.Err))
}

// requestDelete probes the selected room for uncommitted changes before
// asking for confirmation.
func (m *Model) requestDelete() (tea.Model, tea.Cmd) {
	v := m.selectedRoom()
	if v == nil {
		return m, m.ShowFlashWarning("No room selected")
	}
	if v.Pending && v.Status == room.StatusError {
		return m.dismissFailed(*v)
	}
	if err := room.CheckDeletable(*v); err != nil {
		return m, m.ShowFlashWarning(deleteRefusal(*v, err))
	}
	if m.isBusy(v.Path) {
		return m, m.ShowFlashWarning(rerrors.UserMessage(rerrors.Busy(rerrors.Op("app.delete"), v.Name)))
	}

	view := *v
	return m, func() tea.Msg {
		st, err := m.git.DirtyStatus(context.Background(), view.Path)
		return DirtyProbedMsg{View: view, Status: st, Err: err}
	}
}

func deleteRefusal(v room.View, err error) string {
	if v.IsPrimary {
		return "Cannot delete the primary worktree"
	}
	return rerrors.UserMessage(err)
}

// dismissFailed drops a failed create that never produced a worktree.
func (m *Model) dismissFailed(v room.View) (tea.Model, tea.Cmd) {
	m.overlay.Clear(v.Path)
	m.refreshViews()
	return m, m.ShowFlashInfo("Dismissed failed room: " + v.Name)
}

func (m *Model) handleDirtyProbed(msg DirtyProbedMsg) (tea.Model, tea.Cmd) {
	v := msg.View
	target := modals.DeleteTarget{
		Name:   v.Name,
		Path:   v.Path,
		Branch: v.Branch,
	}
	if msg.Err != nil {
		target.ProbeError = rerrors.UserMessage(msg.Err)
	} else {
		target.DirtySummary = msg.Status.Summary()
		if msg.Status.IsDirty() {
			target.DirtyFiles = msg.Status.Files
		}
	}
	m.modal.Show(modals.NewConfirmDeleteState(target))
	return m, nil
}

// deleteSelected removes the selected room without asking.
func (m *Model) deleteSelected() (tea.Model, tea.Cmd) {
	v := m.selectedRoom()
	if v == nil {
		return m, m.ShowFlashWarning("No room selected")
	}
	if v.Pending && v.Status == room.StatusError {
		return m.dismissFailed(*v)
	}
	return m.beginDelete(*v)
}

// beginDelete removes the worktree of v in the background. Its branch is
// kept.
func (m *Model) beginDelete(v room.View) (tea.Model, tea.Cmd) {
	if err := room.CheckDeletable(v); err != nil {
		return m, m.ShowFlashWarning(deleteRefusal(v, err))
	}
	op, err := m.beginOp(opDelete, v.Name, v.Path)
	if err != nil {
		return m, m.ShowFlashWarning(rerrors.UserMessage(err))
	}
	m.overlay.Set(v.Path, room.StatusDeleting)
	m.refreshViews()

	cmd := func() tea.Msg {
		ctx := context.Background()
		err := m.git.RemoveWorktree(ctx, m.primary, v.Path, true)
		if err != nil {
			m.events.Error(v.Name, err)
		} else {
			m.events.RoomDeleted(v.Name)
		}
		return DeleteResultMsg{Op: op, Sync: m.resync(ctx), Err: err}
	}
	return m, tea.Batch(cmd, m.ShowFlashInfo("Deleting room: "+v.Name))
}

func (m *Model) handleDeleteResult(msg DeleteResultMsg) (tea.Model, tea.Cmd) {
	op := msg.Op
	m.applySync(msg.Sync)
	m.endOp(op)

	if msg.Err != nil {
		logger.WithRoom(op.Name).Error("delete failed", "error", msg.Err)
		m.overlay.SetError(op.Path, rerrors.UserMessage(msg.Err))
		m.refreshViews()
		return m, tea.Batch(
			m.ShowFlashError("Failed to delete room "+op.Name+": "+rerrors.UserMessage(msg.Err)),
			m.notifyCmd(op, msg.Err),
		)
	}

	if m.sessions.Get(op.Path) != nil {
		_ = m.sessions.Close(op.Path)
	}
	m.overlay.Clear(op.Path)
	if m.focus == FocusTerminal && m.selectedRoom() != nil && m.selectedRoom().Path == op.Path {
		m.focusSidebar()
	}
	m.refreshViews()
	return m, tea.Batch(
		m.ShowFlashSuccess("Deleted room: "+op.Name),
		m.notifyCmd(op, nil),
	)
}

// showRenameModal prompts for a new name for the selected room.
func (m *Model) showRenameModal() (tea.Model, tea.Cmd) {
	v := m.selectedRoom()
	if v == nil {
		return m, m.ShowFlashWarning("No room selected")
	}
	if v.IsPrimary {
		return m, m.ShowFlashWarning("Cannot rename the primary worktree")
	}
	if v.Pending {
		return m, m.ShowFlashWarning("Room " + v.Name + " has no worktree yet")
	}
	m.modal.Show(modals.NewRenameRoomState(v.Path, v.Name))
	return m, nil
}

// beginRename moves the worktree of oldName to a sibling named newName.
// Errors that need a different name are shown in the modal, which stays
// open.
func (m *Model) beginRename(oldName, newName string) (tea.Model, tea.Cmd) {
	if newName == "" {
		m.modal.Hide()
		return m, m.ShowFlashInfo("Rename cancelled: name cannot be empty")
	}
	plan, err := room.PlanRename(m.views, m.roomsDir, oldName, newName, pathExists)
	if err != nil {
		m.modal.SetError(rerrors.UserMessage(err))
		return m, nil
	}
	op, err := m.beginOp(opRename, oldName, plan.From.Path, plan.NewPath)
	if err != nil {
		m.modal.SetError(rerrors.UserMessage(err))
		return m, nil
	}
	m.modal.Hide()

	from := plan.From
	cmd := func() tea.Msg {
		ctx := context.Background()
		err := m.git.MoveWorktree(ctx, m.primary, from.Path, plan.NewPath)
		if err != nil {
			m.events.Error(from.Name, err)
		} else {
			m.events.RoomRenamed(from.Name, plan.NewName)
		}
		return RenameResultMsg{Op: op, NewName: plan.NewName, NewPath: plan.NewPath, Sync: m.resync(ctx), Err: err}
	}
	return m, tea.Batch(cmd, m.ShowFlashInfo(fmt.Sprintf("Renaming %s to %s", from.Name, plan.NewName)))
}

func (m *Model) handleRenameResult(msg RenameResultMsg) (tea.Model, tea.Cmd) {
	op := msg.Op
	m.applySync(msg.Sync)
	m.endOp(op)

	if msg.Err != nil {
		logger.WithRoom(op.Name).Error("rename failed", "error", msg.Err)
		m.overlay.SetError(op.Path, rerrors.UserMessage(msg.Err))
		m.refreshViews()
		return m, tea.Batch(
			m.ShowFlashError("Failed to rename room "+op.Name+": "+rerrors.UserMessage(msg.Err)),
			m.notifyCmd(op, msg.Err),
		)
	}

	// The shell's working directory no longer exists.
	if m.sessions.Get(op.Path) != nil {
		_ = m.sessions.Close(op.Path)
		if m.focus == FocusTerminal {
			m.focusSidebar()
		}
	}
	m.overlay.Clear(op.Path)
	m.refreshViews()
	m.selectPath(msg.NewPath)
	return m, tea.Batch(
		m.ShowFlashSuccess(fmt.Sprintf("Renamed: %s -> %s", op.Name, msg.NewName)),
		m.notifyCmd(op, nil),
	)
}

// pruneCmd runs git worktree prune and resyncs.
func (m *Model) pruneCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.git.PruneWorktrees(ctx, m.primary)
		if err != nil {
			m.events.Error("", err)
		}
		return PruneResultMsg{Sync: m.resync(ctx), Err: err}
	}
}

func (m *Model) handlePruneResult(msg PruneResultMsg) (tea.Model, tea.Cmd) {
	m.applySync(msg.Sync)
	m.refreshViews()
	if msg.Err != nil {
		return m, m.ShowFlashError("Failed to prune worktrees: " + rerrors.UserMessage(msg.Err))
	}
	return m, m.ShowFlashSuccess("Ran git worktree prune")
}

// enterSelected opens the selected room's shell and focuses it, starting the
// shell when there is none.
func (m *Model) enterSelected() (tea.Model, tea.Cmd) {
	v := m.selectedRoom()
	if v == nil {
		return m, m.ShowFlashWarning("No room selected")
	}
	if v.IsPrunable {
		return m, tea.Batch(m.pruneCmd(), m.ShowFlashInfo("Pruning stale worktrees"))
	}
	if v.HasSession {
		m.focusTerminal()
		m.refreshPane()
		return m, nil
	}
	if v.Status.InFlight() || m.isBusy(v.Path) {
		return m, m.ShowFlashWarning(rerrors.UserMessage(rerrors.Busy(rerrors.Op("app.enter"), v.Name)))
	}
	if v.Pending || v.Section == room.SectionFailed {
		return m, m.ShowFlashWarning("Cannot open failed worktree")
	}

	cols, rows := ui.GetViewContext().ShellSize()
	if _, err := m.sessions.Open(v.Path, cols, rows); err != nil {
		return m, m.ShowFlashError(rerrors.UserMessage(err))
	}
	m.overlay.Clear(v.Path)
	m.refreshViews()
	m.focusTerminal()
	m.refreshPane()
	return m, m.postEnterCmd(v.Path)
}
