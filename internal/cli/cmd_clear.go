package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/reconcile"
)

// newClearCmd creates the clear command
func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Back up and delete all tasks",
		Long: `Write a timestamped backup of the current task set, then delete
everything, completed tasks included.

Example:
  reef clear
  reef clear --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if !force {
				fmt.Printf("This deletes all %d task(s) after writing a backup. Continue? [y/N] ", s.Len())
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			result, err := s.ReconcileBatch(reconcile.ModeClearAll, nil, "")
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Println("All tasks cleared. Backup:", result.BackupPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
