package classify

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"glyph-ocr/internal/dataset"
	"glyph-ocr/internal/logger"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const component = "classify"

// Options controls the repeated-holdout protocol.
type Options struct {
	Trials       int           `json:"trials"`
	TestFraction float64       `json:"test_fraction"`
	K            int           `json:"k"`
	Workers      int           `json:"workers"`
	Rand         *rand.Rand    `json:"-"`
	Log          logger.Logger `json:"-"`
}

// DefaultOptions returns 30 trials of a 70/30 split with 1-NN. Rand is left
// nil; Train then seeds from DefaultSeed.
func DefaultOptions() Options {
	return Options{
		Trials:       30,
		TestFraction: 0.3,
		K:            1,
		Workers:      runtime.NumCPU(),
	}
}

// DefaultSeed seeds the random source when Options.Rand is nil.
const DefaultSeed = 1

func (o Options) validate() error {
	if o.Trials < 1 {
		return fmt.Errorf("trials must be positive, got %d", o.Trials)
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0, 1), got %g", o.TestFraction)
	}
	return nil
}

// Result is the outcome of training one class.
type Result struct {
	Class int
	// Model is the classifier of the first trial with the highest weighted
	// accuracy.
	Model *Classifier
	// Confusion comes from trial 0, not from the best trial.
	Confusion *Confusion
	// MeanAccuracy is the mean weighted accuracy over all trials.
	MeanAccuracy float64
	BestAccuracy float64
	BestTrial    int
	Accuracies   []float64
	// Rows is the row count after singleton duplication.
	Rows int
}

type trialResult struct {
	model     *Classifier
	confusion *Confusion
	accuracy  float64
	err       error
}

// Train runs the repeated-holdout protocol on one class table. An empty
// table yields (nil, nil): the class abstains.
func Train(ds *dataset.ClassDataset, opts Options) (*Result, error) {
	if ds == nil || ds.Empty() {
		return nil, nil
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := logger.OrNop(opts.Log)
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(DefaultSeed))
	}

	if m := ds.Matrix(); m != nil {
		r, c := m.Dims()
		distinct := make(map[string]struct{})
		for _, l := range ds.Labels() {
			distinct[l] = struct{}{}
		}
		log.Debug(component, "class table", logger.Fields{
			"class": ds.Class, "rows": r, "features": c,
			"labels": len(distinct), "max_feature": mat.Max(m),
		})
	}

	rows := DuplicateSingletons(ds.Rows)
	if len(rows) != ds.Len() {
		log.Debug(component, "duplicated singleton labels", logger.Fields{
			"class": ds.Class, "added": len(rows) - ds.Len(),
		})
	}

	seeds := make([]int64, opts.Trials)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	trials := make([]trialResult, opts.Trials)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < max(1, min(opts.Workers, opts.Trials)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				trials[i] = runTrial(rows, seeds[i], opts)
			}
		}()
	}
	for i := range trials {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	res := &Result{Class: ds.Class, Rows: len(rows), Accuracies: make([]float64, len(trials))}
	for i, tr := range trials {
		if tr.err != nil {
			return nil, fmt.Errorf("class %d trial %d: %w", ds.Class, i, tr.err)
		}
		res.Accuracies[i] = tr.accuracy
		if i == 0 || tr.accuracy > res.BestAccuracy {
			res.Model, res.BestAccuracy, res.BestTrial = tr.model, tr.accuracy, i
		}
	}
	res.Confusion = trials[0].confusion
	res.MeanAccuracy = stat.Mean(res.Accuracies, nil)

	log.Info(component, "class trained", logger.Fields{
		"class": ds.Class, "rows": len(rows), "mean_accuracy": res.MeanAccuracy,
		"best_accuracy": res.BestAccuracy, "best_trial": res.BestTrial,
	})
	return res, nil
}

func runTrial(rows []dataset.Row, seed int64, opts Options) trialResult {
	train, test := StratifiedSplit(rows, opts.TestFraction, rand.New(rand.NewSource(seed)))
	model := Fit(train, opts.K)
	pred, err := model.PredictRows(test)
	if err != nil {
		return trialResult{err: err}
	}
	truth := make([]string, len(test))
	for i, r := range test {
		truth[i] = r.Label
	}
	conf, err := NewConfusion(truth, pred)
	if err != nil {
		return trialResult{err: err}
	}
	return trialResult{model: model, confusion: conf, accuracy: WeightedAccuracy(truth, pred)}
}

// TrainAll trains every class of set in order. Abstaining classes leave a
// nil model and a nil result in their slot.
func TrainAll(set *dataset.Set, opts Options) (*Models, []*Result, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(DefaultSeed))
	}
	models := NewModels(set.N, set.MaxContours)
	results := make([]*Result, len(set.Classes))
	for i, ds := range set.Classes {
		res, err := Train(ds, opts)
		if err != nil {
			return nil, nil, err
		}
		results[i] = res
		if res == nil {
			logger.OrNop(opts.Log).Warning(component, "class abstained", logger.Fields{"class": i + 1})
			continue
		}
		models.Classes[i] = res.Model
		models.Accuracy[i] = res.MeanAccuracy
	}
	return models, results, nil
}
