package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/task"
)

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show task details",
		Long: `Show the full record of a task, addressed by ID or exact name.

Example:
  reef show 4f8a2c1e
  reef show "implement parser"`,
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

			if jsonOut {
				return printJSON(t)
			}
			printTask(t)
			return nil
		},
	}
	return cmd
}

func printTask(t *task.Task) {
	header := t.Name
	if isatty.IsTerminal(os.Stdout.Fd()) {
		header = statusIcon(t.Status) + " " + header
	}
	fmt.Println(header)
	fmt.Println(strings.Repeat("─", len([]rune(t.Name))+3))
	fmt.Println("ID:        ", t.ID)
	fmt.Println("Status:    ", t.Status)
	fmt.Println("Created:   ", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("Updated:   ", t.UpdatedAt.Format("2006-01-02 15:04:05"))
	if t.CompletedAt != nil {
		fmt.Println("Completed: ", t.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Println("\nDescription:")
	fmt.Println("  " + strings.ReplaceAll(t.Description, "\n", "\n  "))

	if t.Notes != "" {
		fmt.Println("\nNotes:")
		fmt.Println("  " + strings.ReplaceAll(t.Notes, "\n", "\n  "))
	}
	if t.ImplementationGuide != "" {
		fmt.Println("\nImplementation guide:")
		fmt.Println("  " + strings.ReplaceAll(t.ImplementationGuide, "\n", "\n  "))
	}
	if t.VerificationCriteria != "" {
		fmt.Println("\nVerification criteria:")
		fmt.Println("  " + strings.ReplaceAll(t.VerificationCriteria, "\n", "\n  "))
	}
	if t.AnalysisResult != "" {
		fmt.Println("\nAnalysis:")
		fmt.Println("  " + strings.ReplaceAll(t.AnalysisResult, "\n", "\n  "))
	}
	if t.Summary != "" {
		fmt.Println("\nSummary:")
		fmt.Println("  " + strings.ReplaceAll(t.Summary, "\n", "\n  "))
	}

	if len(t.Dependencies) > 0 {
		fmt.Println("\nDependencies:")
		for _, d := range t.Dependencies {
			fmt.Println("  -", d.TaskID)
		}
	}
	if len(t.RelatedFiles) > 0 {
		fmt.Println("\nRelated files:")
		for _, f := range t.RelatedFiles {
			line := fmt.Sprintf("  - [%s] %s", f.Type, f.Path)
			if f.LineStart != nil && f.LineEnd != nil {
				line += fmt.Sprintf(" (lines %d-%d)", *f.LineStart, *f.LineEnd)
			}
			fmt.Println(line)
		}
	}
}
