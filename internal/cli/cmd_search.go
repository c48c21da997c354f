package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newSearchCmd creates the search command
func newSearchCmd() *cobra.Command {
	var (
		byID     bool
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by keyword or ID",
		Long: `Search tasks by a case-insensitive substring of name or description,
or look one up by exact ID with --id.

Example:
  reef search parser
  reef search --id 4f8a2c1e-90d2-4b1f-8a77-52e9c1b0aa10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if pageSize <= 0 {
				pageSize = cfg.Query.PageSize
			}
			result, err := s.Search(args[0], byID, page, pageSize)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(result)
			}
			if result.Total == 0 {
				fmt.Println("No matching tasks.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tNAME")
			for _, t := range result.Tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(t.ID), t.Status, truncate(t.Name, 50))
			}
			w.Flush()

			if result.TotalPages > 1 && !quiet {
				fmt.Printf("\nPage %d of %d (%d matches)\n", result.Page, result.TotalPages, result.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byID, "id", false, "treat the query as an exact task ID")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	return cmd
}
