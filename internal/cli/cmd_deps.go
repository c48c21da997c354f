package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/task"
)

// newDepsCmd creates the deps command
func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <task>",
		Short: "Show whether a task can execute",
		Long: `Evaluate a task's execution gate: it may start only when every
dependency is completed. Blockers are listed in dependency order.

Example:
  reef deps "implement parser"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveTaskID(s, args[0])
			if err != nil {
				return err
			}
			exec, err := s.CanExecute(id)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(exec)
			}

			switch {
			case exec.Status == task.StatusInProgress:
				fmt.Println("Task is already in progress.")
			case exec.Status == task.StatusCompleted:
				fmt.Println("Task is already completed.")
			case exec.Executable:
				fmt.Println("Ready to execute: reef start", shortID(id))
			default:
				fmt.Println("Blocked by unfinished dependencies:")
				for _, b := range exec.BlockedBy {
					fmt.Printf("  %s %s  %s (%s)\n", statusIcon(b.Status), shortID(b.ID), b.Name, b.Status)
				}
			}
			return nil
		},
	}
	return cmd
}
