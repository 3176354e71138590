// Package git wraps the git subcommands rooms depends on.
//
// The package is organized into focused files:
//   - service.go: GitService, command execution and the watchdog timeout
//   - worktree.go: worktree listing, porcelain parsing, add/remove/move/prune
//   - repo.go: repository root and primary worktree probes, branch queries
//   - status.go: dirty status used by the delete confirmation
//   - sync.go: the Synchronizer that produces room snapshots
package git
