package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/store"
)

// newUpdateCmd creates the update command
func newUpdateCmd() *cobra.Command {
	var (
		name        string
		description string
		notes       string
		guide       string
		criteria    string
		deps        []string
	)

	cmd := &cobra.Command{
		Use:   "update <task>",
		Short: "Update a task's content",
		Long: `Replace selected fields of a non-completed task. Only flags that are
given change anything; each one replaces its field wholesale.

Dependencies are given as task IDs or exact names and replace the whole
dependency list. Pass --deps "" to clear it.

Example:
  reef update "implement parser" --notes "blocked on grammar decision"
  reef update 4f8a2c1e --deps "design grammar" --deps "write lexer"`,
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

			var upd store.ContentUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("notes") {
				upd.Notes = &notes
			}
			if cmd.Flags().Changed("guide") {
				upd.ImplementationGuide = &guide
			}
			if cmd.Flags().Changed("criteria") {
				upd.VerificationCriteria = &criteria
			}
			if cmd.Flags().Changed("deps") {
				tokens := deps
				if len(tokens) == 1 && tokens[0] == "" {
					tokens = nil
				}
				upd.Dependencies = &tokens
			}

			t, err := s.UpdateContent(id, upd)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(t)
			}
			fmt.Printf("%s %s updated\n", statusIcon(t.Status), t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new task name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().StringVar(&guide, "guide", "", "new implementation guide")
	cmd.Flags().StringVar(&criteria, "criteria", "", "new verification criteria")
	cmd.Flags().StringArrayVar(&deps, "deps", nil, "replacement dependency list (repeatable)")
	return cmd
}
