package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStartCmd creates the start command
func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <task>",
		Short: "Begin work on a task",
		Long: `Move a pending task to in_progress. Fails when any dependency is
not completed yet; starting an already in-progress task is a no-op.

Example:
  reef start "implement parser"`,
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
			t, err := s.Start(id)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(t)
			}
			fmt.Printf("%s %s is now %s\n", statusIcon(t.Status), t.Name, t.Status)
			return nil
		},
	}
	return cmd
}
