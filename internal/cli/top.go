package cli

import (
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/featsel/internal/dictionary"
	"github.com/happyhackingspace/featsel/internal/resultdb"
)

func (c *CLI) newTopCommand() *cobra.Command {
	var k int
	var label string

	cmd := &cobra.Command{
		Use:   "top <db> [run-id]",
		Short: "List stored runs, or the top features of a run",
		Args:  cobra.RangeArgs(1, 2),
		Example: `  # List runs, newest first
  featsel top runs.db

  # Ten best features of every label of a run
  featsel top runs.db 01HZX3M6Q1N5A8B2C7D9E4F0GK -k 10

  # A single label
  featsel top runs.db 01HZX3M6Q1N5A8B2C7D9E4F0GK --label sport`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := resultdb.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if len(args) == 1 {
				runs, err := db.Runs(ctx)
				if err != nil {
					return err
				}
				if runs == nil {
					runs = []resultdb.Run{}
				}
				return writeJSON(cmd.OutOrStdout(), runs)
			}

			runID := args[1]
			labels := []string{label}
			if label == "" {
				if labels, err = db.Labels(ctx, runID); err != nil {
					return err
				}
			}

			res := &dictionary.Result{Shape: dictionary.ShapeGrouped}
			for _, l := range labels {
				features, err := db.TopFeatures(ctx, runID, l, k)
				if err != nil {
					return err
				}
				res.Labels = append(res.Labels, dictionary.LabelFeatures{Label: l, Features: features})
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVarP(&k, "top", "k", 20, "Features per label (<=0: all)")
	cmd.Flags().StringVar(&label, "label", "", "Only this label")
	return cmd
}
