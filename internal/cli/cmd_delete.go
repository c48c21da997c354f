package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <task>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task permanently. Completed tasks are part of the project
history and cannot be deleted.

Example:
  reef delete "abandoned experiment"`,
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
			if err := s.Delete(id); err != nil {
				return err
			}
			if !quiet {
				fmt.Println("Deleted", shortID(id))
			}
			return nil
		},
	}
	return cmd
}
