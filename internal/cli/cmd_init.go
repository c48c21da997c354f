package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/config"
	reeferrors "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/storage"
	"github.com/mworkman/reef/internal/util"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize reef in the current project",
		Long: `Create the .reef data directory with a default config and an empty
task snapshot.

Example:
  reef init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()

			if _, err := os.Stat(cfg.DataDir); err == nil && !force {
				return reeferrors.ErrAlreadyInitialized(cfg.DataDir)
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", cfg.DataDir, err)
			}

			if err := cfg.Write(cfg.ConfigPath()); err != nil {
				return err
			}

			snapshot := filepath.Join(cfg.DataDir, storage.SnapshotFileName)
			if _, err := os.Stat(snapshot); os.IsNotExist(err) {
				if err := util.AtomicWriteJSON(snapshot, []any{}, 0o644); err != nil {
					return err
				}
			}

			if !quiet {
				fmt.Println("Initialized reef in", cfg.DataDir)
				fmt.Println("Next: reef plan -f plan.yaml")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reinitialize even if .reef already exists")
	return cmd
}
