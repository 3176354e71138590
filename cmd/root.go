package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/rooms/internal/app"
	"github.com/zhubert/rooms/internal/clipboard"
	"github.com/zhubert/rooms/internal/config"
	rerrors "github.com/zhubert/rooms/internal/errors"
	"github.com/zhubert/rooms/internal/git"
	"github.com/zhubert/rooms/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	ptyDebug              bool
	noPostCreate          bool
	roomsDirFlag          string
	repoPath              string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "rooms",
	Short: "TUI for git worktrees, each with its own shell",
	Long: `Rooms manages the git worktrees of a repository. Each room is a worktree
with an embedded shell, listed in a sidebar next to a terminal pane.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path inside the repository")
	rootCmd.PersistentFlags().StringVar(&roomsDirFlag, "rooms-dir", "", "Directory rooms are created in (overrides rooms_dir)")
	rootCmd.Flags().BoolVar(&noPostCreate, "no-post-create", false, "Skip post_create hooks for new rooms")
	rootCmd.Flags().BoolVar(&ptyDebug, "debug-pty", false, "Trace raw shell output to ~/.rooms/debug.log")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("rooms %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("rooms %s\n", version)
}

// repoContext is what every command needs to know about the repository.
type repoContext struct {
	git      *git.GitService
	primary  string
	roomsDir string
	cfg      *config.Config
}

// loadRepo finds the primary worktree of the repository containing dir and
// loads its configuration. The --rooms-dir flag wins over rooms_dir.
func loadRepo(ctx context.Context, dir string) (*repoContext, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	svc := git.NewGitService()
	if _, err := svc.RepoRoot(ctx, abs); err != nil {
		return nil, err
	}
	primary, err := svc.PrimaryWorktree(ctx, abs)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(primary)
	if err != nil {
		return nil, err
	}
	roomsDir := cfg.RoomsPath(primary)
	if roomsDirFlag != "" {
		if roomsDir, err = filepath.Abs(roomsDirFlag); err != nil {
			return nil, err
		}
	}
	if resolved, err := filepath.EvalSymlinks(roomsDir); err == nil {
		roomsDir = resolved
	}
	return &repoContext{git: svc, primary: primary, roomsDir: roomsDir, cfg: cfg}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if ptyDebug {
		if err := logger.Init(logger.PTYDebugLogPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		logger.SetDebug(true)
	}
	// Ensure logger is closed on exit
	defer logger.Close()

	repo, err := loadRepo(cmd.Context(), repoPath)
	if err != nil {
		return fmt.Errorf("%s", rerrors.UserMessage(err))
	}
	logger.ComponentLogger("cmd").Info("starting",
		"version", version, "primary", repo.primary, "rooms_dir", repo.roomsDir, "config", repo.cfg.Path())

	var clip clipboard.Clipboard = clipboard.System{}
	if err := clipboard.Init(); err != nil {
		// Copy still reaches the terminal through OSC 52.
		clip = &clipboard.Memory{}
	}

	m := app.New(app.Options{
		Primary:        repo.primary,
		RoomsDir:       repo.roomsDir,
		Config:         repo.cfg,
		Git:            repo.git,
		Clipboard:      clip,
		SkipPostCreate: noPostCreate,
		PTYDebug:       ptyDebug,
		Version:        version,
	})
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
