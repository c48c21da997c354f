package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/complexity"
)

// newAssessCmd creates the assess command
func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess <task>",
		Short: "Assess task complexity",
		Long: `Estimate how complex a task is from its description length,
dependency count and notes, and print recommendations.

Example:
  reef assess "implement parser"`,
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
			t, err := s.GetByID(id)
			if err != nil {
				return err
			}

			a := complexity.Assess(t)
			if jsonOut {
				return printJSON(a)
			}

			fmt.Printf("%s  %s\n", shortID(a.TaskID), a.TaskName)
			fmt.Println("Complexity:  ", a.Level)
			fmt.Println("Description: ", a.Metrics.DescriptionLength, "chars")
			fmt.Println("Dependencies:", a.Metrics.DependenciesCount)
			if a.Metrics.HasNotes {
				fmt.Println("Notes:       ", a.Metrics.NotesLength, "chars")
			}
			if len(a.Recommendations) > 0 {
				fmt.Println("\nRecommendations:")
				for _, r := range a.Recommendations {
					fmt.Println("  -", r)
				}
			}
			return nil
		},
	}
	return cmd
}
