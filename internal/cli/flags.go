package cli

import (
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/featsel/internal/config"
)

// pipelineFlags are the pipeline settings shared by convert and rank. Flags
// that are set explicitly override the --config file.
type pipelineFlags struct {
	configPath string
	values     config.Config
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.IntVarP(&f.values.Ngram, "ngram", "n", d.Ngram, "N-gram size")
	fl.StringVar(&f.values.Separator, "separator", d.Separator, "Separator joining n-gram tokens")
	fl.IntVarP(&f.values.Parallelism, "parallelism", "j", d.Parallelism, "Worker count (<=0: all CPUs)")
	fl.StringVar(&f.values.Counting, "counting", d.Counting, "Count mode: terms or documents")
	fl.StringVar(&f.values.Vocabulary, "vocabulary", d.Vocabulary, "Feature id order: first-seen or sorted")
	fl.StringVar(&f.values.Scorer, "scorer", d.Scorer, "Association measure: pmi or npmi")
	fl.BoolVar(&f.values.SortDesc, "sort-desc", d.SortDesc, "Sort features by weight, highest first")
	fl.BoolVar(&f.values.CutZero, "cut-zero", d.CutZero, "Drop features with weight 0")
	fl.StringVar(&f.values.Shape, "shape", d.Shape, "Output shape: grouped or flat")
	fl.BoolVar(&f.values.Lowercase, "lowercase", d.Lowercase, "Lowercase text before tokenizing")
}

// resolve loads the config file, if any, and applies explicitly set flags.
func (f *pipelineFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}
	set("ngram", func() { cfg.Ngram = f.values.Ngram })
	set("separator", func() { cfg.Separator = f.values.Separator })
	set("parallelism", func() { cfg.Parallelism = f.values.Parallelism })
	set("counting", func() { cfg.Counting = f.values.Counting })
	set("vocabulary", func() { cfg.Vocabulary = f.values.Vocabulary })
	set("scorer", func() { cfg.Scorer = f.values.Scorer })
	set("sort-desc", func() { cfg.SortDesc = f.values.SortDesc })
	set("cut-zero", func() { cfg.CutZero = f.values.CutZero })
	set("shape", func() { cfg.Shape = f.values.Shape })
	set("lowercase", func() { cfg.Lowercase = f.values.Lowercase })

	return cfg, cfg.Validate()
}
