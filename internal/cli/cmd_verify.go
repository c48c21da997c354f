package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/store"
	"github.com/mworkman/reef/internal/task"
)

// newVerifyCmd creates the verify command
func newVerifyCmd() *cobra.Command {
	var (
		score   int
		summary string
	)

	cmd := &cobra.Command{
		Use:   "verify <task>",
		Short: "Verify an in-progress task",
		Long: fmt.Sprintf(`Judge an in-progress task with a score from 0 to 100. A score of %d
or higher completes the task and records the text as its summary; a
lower score leaves the task in progress and the text is treated as
corrective feedback.

Example:
  reef verify "implement parser" --score 92 --summary "Parser handles all grammar rules with full test coverage"`,
			store.VerifyPassScore),
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
			t, err := s.Verify(id, score, summary)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(t)
			}
			if t.Status == task.StatusCompleted {
				fmt.Printf("%s %s completed (score %d)\n", statusIcon(t.Status), t.Name, score)
			} else {
				fmt.Printf("%s %s stays %s (score %d below %d)\n",
					statusIcon(t.Status), t.Name, t.Status, score, store.VerifyPassScore)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "verification score, 0-100")
	cmd.Flags().StringVar(&summary, "summary", "", "completion summary (or feedback when failing)")
	_ = cmd.MarkFlagRequired("score")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}
