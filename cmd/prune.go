package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/git"
	"github.com/zhubert/rooms/internal/logger"
)

var (
	skipConfirm bool
	clearLogs   bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale worktree records",
	Long: `Lists rooms whose worktree directory is gone and runs 'git worktree prune'
to drop their records. Branches are kept.

It will prompt for confirmation before proceeding unless the --yes flag is used.
With --logs the debug logs are removed as well.`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	pruneCmd.Flags().BoolVar(&clearLogs, "logs", false, "Also remove the debug logs")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	repo, err := loadRepo(cmd.Context(), repoPath)
	if err != nil {
		return fmt.Errorf("%s", rerrors.UserMessage(err))
	}
	return pruneRooms(cmd.Context(), os.Stdin, os.Stdout, repo, skipConfirm, clearLogs)
}

// pruneRooms allows injecting input and output for testing
func pruneRooms(ctx context.Context, input io.Reader, out io.Writer, repo *repoContext, yes, logs bool) error {
	snap, err := git.NewSynchronizer(repo.git, repo.primary, repo.roomsDir).Sync(ctx)
	if err != nil {
		return fmt.Errorf("%s", rerrors.UserMessage(err))
	}

	var stale []git.SnapshotEntry
	for _, e := range snap {
		if e.IsPrunable {
			stale = append(stale, e)
		}
	}

	if len(stale) == 0 && !logs {
		fmt.Fprintln(out, "Nothing to prune.")
		return nil
	}

	fmt.Fprintln(out, "This will clean:")
	if len(stale) > 0 {
		fmt.Fprintf(out, "  - %d stale worktree(s)\n", len(stale))
		for _, e := range stale {
			reason := e.PrunableReason
			if reason == "" {
				reason = "directory missing"
			}
			fmt.Fprintf(out, "      %s (%s)\n", e.Path, reason)
		}
	}
	if logs {
		fmt.Fprintln(out, "  - The rooms debug logs")
	}

	if !yes {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if len(stale) > 0 {
		if err := repo.git.PruneWorktrees(ctx, repo.primary); err != nil {
			return fmt.Errorf("%s", rerrors.UserMessage(err))
		}
		fmt.Fprintf(out, "  - %d stale worktree(s) pruned\n", len(stale))
	}
	if logs {
		n, err := logger.ClearLogs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
		}
		fmt.Fprintf(out, "  - %d log file(s) removed\n", n)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
