package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/store"
	"github.com/mworkman/reef/internal/task"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	var (
		status   string
		fileGlob string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in the current project.

Example:
  reef list
  reef list --status pending
  reef list --files 'internal/**/*.go'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if pageSize <= 0 {
				pageSize = cfg.Query.PageSize
			}
			result, err := s.Query(store.Filter{
				Status:   task.Status(status),
				FileGlob: fileGlob,
			}, page, pageSize)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(result)
			}
			if result.Total == 0 {
				fmt.Println("No tasks found. Create some with: reef plan -f plan.yaml")
				return nil
			}

			// Print tasks in table format
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tDEPS\tNAME")
			fmt.Fprintln(w, "──\t──────\t────\t────")
			for _, t := range result.Tasks {
				fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\n",
					shortID(t.ID), statusIcon(t.Status), t.Status, len(t.Dependencies), truncate(t.Name, 50))
			}
			w.Flush()

			if result.TotalPages > 1 && !quiet {
				fmt.Printf("\nPage %d of %d (%d tasks)\n", result.Page, result.TotalPages, result.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, in_progress, completed)")
	cmd.Flags().StringVar(&fileGlob, "files", "", "filter by related file glob, e.g. 'src/**/*.go'")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "tasks per page")
	return cmd
}
