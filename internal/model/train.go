package model

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
)

const testFraction = 0.2

// RegressionReport holds the held-out evaluation of a wait-time model.
type RegressionReport struct {
	MAE       float64
	MedianAE  float64
	R2        float64
	TrainRows int
	TestRows  int
}

// ClassificationReport holds the held-out evaluation of a jam model.
type ClassificationReport struct {
	Accuracy  float64
	Confusion [2][2]int
	ROCAUC    float64
	TrainRows int
	TestRows  int
}

func splitIndices(n int, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testSize := int(math.Round(float64(n) * testFraction))
	if testSize < 1 && n > 1 {
		testSize = 1
	}
	return perm[testSize:], perm[:testSize]
}

func gather(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	gx := make([][]float64, len(idx))
	gy := make([]float64, len(idx))
	for i, j := range idx {
		gx[i] = x[j]
		gy[i] = y[j]
	}
	return gx, gy
}

// TrainWaitModel fits the wait-time regressor on an 80/20 split and
// evaluates it on the held-out part.
func TrainWaitModel(ts *features.TrainingSet, cfg ForestConfig) (*Forest, RegressionReport, error) {
	trainIdx, testIdx := splitIndices(len(ts.X), cfg.Seed)
	if len(trainIdx) == 0 {
		return nil, RegressionReport{}, fmt.Errorf("train wait model: empty training split")
	}
	trainX, trainY := gather(ts.X, ts.Y, trainIdx)
	testX, testY := gather(ts.X, ts.Y, testIdx)

	forest, err := FitForest(trainX, trainY, cfg)
	if err != nil {
		return nil, RegressionReport{}, err
	}

	report := RegressionReport{TrainRows: len(trainIdx), TestRows: len(testIdx)}
	if len(testIdx) > 0 {
		predicted := make([]float64, len(testX))
		for i, row := range testX {
			if predicted[i], err = forest.Predict(row); err != nil {
				return nil, RegressionReport{}, err
			}
		}
		report.MAE = MAE(testY, predicted)
		report.MedianAE = MedianAE(testY, predicted)
		report.R2 = R2(testY, predicted)
	}
	return forest, report, nil
}

// TrainJamModel fits the binary severe-jam classifier from the raw event
// stream with the same split and seed discipline.
func TrainJamModel(events []history.Event, p features.Params, cfg ForestConfig) (*JamModel, ClassificationReport, error) {
	x, y, columns, err := BuildJamTrainingSet(events, p)
	if err != nil {
		return nil, ClassificationReport{}, err
	}

	trainIdx, testIdx := splitIndices(len(x), cfg.Seed)
	if len(trainIdx) == 0 {
		return nil, ClassificationReport{}, fmt.Errorf("train jam model: empty training split")
	}
	trainX, trainY := gather(x, y, trainIdx)
	testX, testY := gather(x, y, testIdx)

	forest, err := FitForest(trainX, trainY, cfg)
	if err != nil {
		return nil, ClassificationReport{}, err
	}
	jam := &JamModel{Forest: forest, Columns: columns}

	report := ClassificationReport{TrainRows: len(trainIdx), TestRows: len(testIdx)}
	if len(testIdx) > 0 {
		scores := make([]float64, len(testX))
		for i, row := range testX {
			if scores[i], err = forest.Predict(row); err != nil {
				return nil, ClassificationReport{}, err
			}
		}
		report.Accuracy = Accuracy(testY, scores)
		report.Confusion = ConfusionMatrix(testY, scores)
		report.ROCAUC = ROCAUC(testY, scores)
	}
	return jam, report, nil
}

// Train runs the complete training pipeline against a history store and
// returns the full artifact bundle. It is used by the batch trainer and by
// the predictor's automatic retrain path.
func Train(fences []fence.Fence, events []history.Event, p features.Params, cfg ForestConfig) (*Bundle, RegressionReport, ClassificationReport, error) {
	ts, err := features.BuildTrainingSet(fences, events, p)
	if err != nil {
		return nil, RegressionReport{}, ClassificationReport{}, err
	}

	waitModel, regReport, err := TrainWaitModel(ts, cfg)
	if err != nil {
		return nil, RegressionReport{}, ClassificationReport{}, err
	}
	jamModel, clsReport, err := TrainJamModel(events, p, cfg)
	if err != nil {
		return nil, RegressionReport{}, ClassificationReport{}, err
	}

	bundle := &Bundle{
		Version:   time.Now().UTC().Format("20060102T150405Z"),
		WaitModel: waitModel,
		JamModel:  jamModel,
		Scaler:    ts.Scaler,
		Artifacts: ts.Artifacts,
		Columns:   ts.Columns,
	}
	return bundle, regReport, clsReport, nil
}
