package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/classifier"
	"github.com/cardguard-dev/cardguard/internal/features"
	"github.com/cardguard-dev/cardguard/internal/logger"
	"github.com/cardguard-dev/cardguard/internal/model"
	"github.com/cardguard-dev/cardguard/internal/rawcsv"
)

type scoreFlags struct {
	modelPath string
	input     string
	raw       string
	output    string
	vector    []float64

	amount     string
	age        int
	gender     string
	hour       int
	weekday    string
	categories []string
}

func newScoreCommand(gf *globalFlags) *cobra.Command {
	var sf scoreFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score transactions with the exported classifier",
		Long: "Score transactions with the exported classifier.\n\n" +
			"  --input   a CSV of 8 encoded feature columns in the fixed order\n" +
			"  --raw     an unlabeled raw CSV, transformed before scoring\n" +
			"  --vector  one transaction as 8 encoded values in the fixed order\n" +
			"  (none)    a single transaction from --amt, --age, --gender, --hour, --day and --category",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, gf)
			if err != nil {
				return err
			}
			modelPath := sf.modelPath
			if modelPath == "" {
				modelPath = p.path(p.cfg.Model.Path)
			}
			clf, err := classifier.Load(modelPath)
			if err != nil {
				return err
			}

			if sf.input != "" && sf.raw != "" {
				return errors.New("--input and --raw are mutually exclusive")
			}
			if cmd.Flags().Changed("vector") {
				if sf.input != "" || sf.raw != "" {
					return errors.New("--vector cannot be combined with --input or --raw")
				}
				v, err := features.Assemble(sf.vector)
				if err != nil {
					return err
				}
				return printVerdict(cmd, clf, v)
			}
			if sf.input == "" && sf.raw == "" {
				return scoreSingle(cmd, clf, sf)
			}

			fb, err := loadScoringBatch(sf)
			if err != nil {
				return err
			}
			preds, err := classifier.Score(clf, fb)
			if err != nil {
				return err
			}

			if err := writePredictions(cmd.OutOrStdout(), sf.output, fb, preds); err != nil {
				return err
			}

			fraud := 0
			for _, pr := range preds {
				fraud += pr.Class
			}
			log := logger.FromContext(cmd.Context())
			log.Info().
				Int("rows", len(preds)).Int("fraudulent", fraud).Msg("scoring complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&sf.modelPath, "model", "", "model file (default from config)")
	cmd.Flags().StringVar(&sf.input, "input", "", "encoded features CSV")
	cmd.Flags().StringVar(&sf.raw, "raw", "", "unlabeled raw transactions CSV")
	cmd.Flags().StringVar(&sf.output, "output", "", "predictions CSV (default stdout)")
	cmd.Flags().Float64SliceVar(&sf.vector, "vector", nil, "encoded features, e.g. 50,30,1,12,0,1,0,0")

	cmd.Flags().StringVar(&sf.amount, "amt", "", "transaction amount")
	cmd.Flags().IntVar(&sf.age, "age", 30, "customer age")
	cmd.Flags().StringVar(&sf.gender, "gender", "Male", "Male or Female")
	cmd.Flags().IntVar(&sf.hour, "hour", 12, "transaction hour (0-23)")
	cmd.Flags().StringVar(&sf.weekday, "day", "Monday", "day of the week")
	cmd.Flags().StringSliceVar(&sf.categories, "category", nil, "merchant category to flag (repeatable or comma-separated)")

	return cmd
}

func loadScoringBatch(sf scoreFlags) (*features.FeatureBatch, error) {
	if sf.raw != "" {
		b, err := rawcsv.ReadFile(sf.raw)
		if err != nil {
			return nil, err
		}
		fb, err := features.Transform(b, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sf.raw, err)
		}
		return fb, nil
	}

	f, err := os.Open(sf.input)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", sf.input, err)
	}
	defer f.Close()

	fb, err := features.ReadVectors(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sf.input, err)
	}
	return fb, nil
}

func scoreSingle(cmd *cobra.Command, clf classifier.Classifier, sf scoreFlags) error {
	if sf.amount == "" {
		return errors.New("--amt is required when scoring a single transaction")
	}
	amt, err := decimal.NewFromString(sf.amount)
	if err != nil {
		return fmt.Errorf("parsing --amt %q: %w", sf.amount, err)
	}
	v, err := features.FromInputs(features.SingleInput{
		Amount:     amt,
		Age:        sf.age,
		Gender:     sf.gender,
		Hour:       sf.hour,
		Weekday:    sf.weekday,
		Categories: sf.categories,
	})
	if err != nil {
		return err
	}
	return printVerdict(cmd, clf, v)
}

func printVerdict(cmd *cobra.Command, clf classifier.Classifier, v model.FeatureVector) error {
	fb := &features.FeatureBatch{Rows: []model.FeatureVector{v}}
	preds, err := classifier.Score(clf, fb)
	if err != nil {
		return err
	}
	p := preds[0]
	fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %s%%)\n",
		p.Label(), decimal.NewFromFloat(p.Confidence()*100).StringFixed(2))
	return nil
}

// writePredictions writes to path, or to stdout when path is empty.
func writePredictions(stdout io.Writer, path string, fb *features.FeatureBatch, preds []classifier.Prediction) error {
	if path == "" {
		return classifier.WriteCSV(stdout, fb, preds)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := classifier.WriteCSV(f, fb, preds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
