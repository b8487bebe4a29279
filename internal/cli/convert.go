package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/featsel/internal/config"
	"github.com/happyhackingspace/featsel/internal/storage"
	"github.com/happyhackingspace/featsel/internal/vectorizer"
)

// matrixOutput is the JSON form of a conversion.
type matrixOutput struct {
	Labels     []string    `json:"labels"`
	Vocabulary []string    `json:"vocabulary"`
	Shape      [2]int      `json:"shape"`
	Matrix     [][]float64 `json:"matrix"`
}

func (c *CLI) newConvertCommand() *cobra.Command {
	var f pipelineFlags

	cmd := &cobra.Command{
		Use:   "convert <corpus>",
		Short: "Print the label × n-gram count matrix of a corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  # Unigram counts of a data folder (one sub-directory per label)
  featsel convert data/

  # Bigram document frequencies of a JSON corpus, sorted vocabulary
  featsel convert corpus.json --ngram 2 --counting documents --vocabulary sorted`,
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
			conv, err := vectorizer.Convert(col, cfg.ConvertOptions())
			if err != nil {
				return err
			}
			slog.Debug("Conversion completed", "duration", time.Since(start))
			return writeJSON(cmd.OutOrStdout(), newMatrixOutput(conv))
		},
	}
	f.register(cmd)
	return cmd
}

func newMatrixOutput(conv *vectorizer.Conversion) matrixOutput {
	rows, cols := conv.Matrix.Dims()
	out := matrixOutput{
		Labels:     conv.Labels.Keys(),
		Vocabulary: conv.Vocabulary.Keys(),
		Shape:      [2]int{rows, cols},
		Matrix:     make([][]float64, rows),
	}
	for i := range rows {
		out.Matrix[i] = conv.Matrix.Row(i).ToDense()
	}
	return out
}

func loadCorpus(path string, cfg config.Config) (*vectorizer.Collection, error) {
	start := time.Now()
	col, err := storage.Load(path, storage.LoadOptions{Lowercase: cfg.Lowercase})
	if err != nil {
		return nil, err
	}
	slog.Info("Corpus loaded", "path", path, "labels", len(col.Groups),
		"documents", col.NumDocuments(), "duration", time.Since(start))
	return col, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
