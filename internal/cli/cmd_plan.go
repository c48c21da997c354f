package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mworkman/reef/internal/reconcile"
)

// newPlanCmd creates the plan command
func newPlanCmd() *cobra.Command {
	var (
		file     string
		mode     string
		analysis string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Reconcile a batch of planned tasks",
		Long: `Apply a plan file (YAML or JSON) against the current task set.

Modes:
  append         add the drafts as new tasks (default)
  overwrite      replace all non-completed tasks with the drafts
  selective      update drafts matching an existing task name, append the rest
  clearAllTasks  back up, wipe everything, then create the drafts

Example:
  reef plan -f plan.yaml
  reef plan -f plan.json --mode selective`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := reconcile.ParseMode(mode)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}
			drafts, fileAnalysis, err := parsePlanFile(data, file)
			if err != nil {
				return err
			}
			if analysis == "" {
				analysis = fileAnalysis
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.ReconcileBatch(m, drafts, analysis)
			if err != nil {
				if result != nil && result.Cleared {
					fmt.Fprintf(os.Stderr, "Tasks were cleared (backup: %s) but creating the new batch failed.\n", result.BackupPath)
				}
				return err
			}

			if jsonOut {
				return printJSON(result)
			}
			if result.Cleared && !quiet {
				fmt.Println("Cleared previous tasks, backup:", result.BackupPath)
			}
			for _, t := range result.Written {
				fmt.Printf("%s  %s  %s\n", statusIcon(t.Status), shortID(t.ID), t.Name)
			}
			if !quiet {
				fmt.Printf("%d task(s) written\n", len(result.Written))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file (YAML or JSON)")
	cmd.Flags().StringVar(&mode, "mode", string(reconcile.ModeAppend), "update mode: append, overwrite, selective, clearAllTasks")
	cmd.Flags().StringVar(&analysis, "analysis", "", "analysis result applied to every written task")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
