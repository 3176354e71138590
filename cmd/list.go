package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/git"
	"github.com/zhubert/rooms/internal/room"
	"golang.org/x/sync/errgroup"
)

// maxDirtyProbes bounds concurrent git status calls in rooms list.
const maxDirtyProbes = 4

var showDirty bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms",
	Long: `Prints the rooms of the repository as the sidebar groups them: section,
status, name, branch and path. With --dirty each room is also checked for
uncommitted changes.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&showDirty, "dirty", false, "Show uncommitted changes per room")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	repo, err := loadRepo(cmd.Context(), repoPath)
	if err != nil {
		return fmt.Errorf("%s", rerrors.UserMessage(err))
	}
	return listRooms(cmd.Context(), os.Stdout, repo, showDirty)
}

// listRooms writes the reconciled room table to w.
func listRooms(ctx context.Context, w io.Writer, repo *repoContext, dirty bool) error {
	snap, err := git.NewSynchronizer(repo.git, repo.primary, repo.roomsDir).Sync(ctx)
	if err != nil {
		return fmt.Errorf("%s", rerrors.UserMessage(err))
	}
	views := room.Reconcile(snap, nil, nil)
	if len(views) == 0 {
		fmt.Fprintln(w, "No rooms.")
		return nil
	}

	var changes []string
	if dirty {
		if changes, err = probeDirty(ctx, repo.git, views); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	header := "SECTION\tSTATUS\tNAME\tBRANCH\tPATH"
	if dirty {
		header += "\tCHANGES"
	}
	fmt.Fprintln(tw, header)
	for i, v := range views {
		branch := v.Branch
		if branch == "" {
			branch = "(detached)"
		}
		name := v.Name
		if v.IsPrimary {
			name += " [primary]"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", v.Section, v.Status, name, branch, v.Path)
		if dirty {
			line += "\t" + changes[i]
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// probeDirty runs git status in every room, a few at a time. Prunable rooms
// have nothing on disk and are skipped.
func probeDirty(ctx context.Context, svc *git.GitService, views []room.View) ([]string, error) {
	changes := make([]string, len(views))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDirtyProbes)
	for i, v := range views {
		if v.IsPrunable {
			changes[i] = "-"
			continue
		}
		g.Go(func() error {
			st, err := svc.DirtyStatus(gctx, v.Path)
			if err != nil {
				changes[i] = "unknown"
				return nil
			}
			if st.IsDirty() {
				changes[i] = st.Summary()
			} else {
				changes[i] = "clean"
			}
			return nil
		})
	}
	return changes, g.Wait()
}
