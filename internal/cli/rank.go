package cli

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/featsel"
	"github.com/happyhackingspace/featsel/internal/resultdb"
)

func (c *CLI) newRankCommand() *cobra.Command {
	var f pipelineFlags
	var dbPath string

	cmd := &cobra.Command{
		Use:   "rank <corpus>",
		Short: "Rank the n-gram features of every label by association",
		Args:  cobra.ExactArgs(1),
		Example: `  # Ranked unigrams per label
  featsel rank data/

  # Bigrams scored with normalized PMI, flat output
  featsel rank corpus.yaml --ngram 2 --scorer npmi --shape flat

  # Settings from a file, stored in a result database
  featsel rank data/ --config featsel.yaml --db runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			col, err := loadCorpus(args[0], cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			r, err := featsel.Rank(col, cfg)
			if err != nil {
				return err
			}
			slog.Debug("Ranking completed", "scorer", r.Scorer, "duration", time.Since(start))

			if dbPath != "" {
				db, err := resultdb.Open(cmd.Context(), dbPath)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				id, err := db.SaveRun(cmd.Context(), resultdb.Run{
					Corpus:     filepath.Base(filepath.Clean(args[0])),
					Scorer:     r.Scorer,
					Ngram:      cfg.Ngram,
					Counting:   cfg.Counting,
					Vocabulary: cfg.Vocabulary,
					Features:   r.Conversion.Vocabulary.Len(),
				}, r.Result)
				if err != nil {
					return err
				}
				slog.Info("Run saved", "db", dbPath, "id", id)
			}

			return writeJSON(cmd.OutOrStdout(), r.Result)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "Store the run in this SQLite result database")
	return cmd
}
