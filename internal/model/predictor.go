package model

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// closedWaitFactor is a documented serving rule: a closed checkpoint empties
// faster than the raw regression suggests, so its estimate is scaled down.
const closedWaitFactor = 0.8

// Loader fetches the current persisted artifact bundle as one unit.
type Loader interface {
	Load() (*Bundle, error)
}

// Retrainer rebuilds and persists a fresh bundle. Wired in by the process
// composition root; nil disables the automatic retrain path.
type Retrainer interface {
	Retrain(ctx context.Context) error
}

// WaitResult is the caller-facing outcome of a wait-time prediction. Err is
// informational: on failure WaitMinutes still carries a usable default, so
// callers always get a well-formed number.
type WaitResult struct {
	Success     bool   `json:"success"`
	WaitMinutes int    `json:"predicted_wait_minutes"`
	Err         string `json:"error,omitempty"`
}

// JamResult is the caller-facing outcome of a jam-probability prediction.
type JamResult struct {
	Success    bool    `json:"success"`
	JamPercent float64 `json:"jam_probability_percent"`
	Err        string  `json:"error,omitempty"`
}

// Predictor serves predictions from an explicitly loaded artifact bundle.
// It is constructed once at startup; the bundle is swapped atomically under
// the lock so in-flight predictions never observe a partial artifact set.
type Predictor struct {
	loader      Loader
	retrainer   Retrainer
	params      features.Params
	defaultWait int

	mu     sync.Mutex
	bundle *Bundle
}

func NewPredictor(loader Loader, retrainer Retrainer, params features.Params, defaultWaitMinutes int) *Predictor {
	return &Predictor{
		loader:      loader,
		retrainer:   retrainer,
		params:      params,
		defaultWait: defaultWaitMinutes,
	}
}

// Reload discards the cached bundle so the next prediction loads the
// current artifact set. Called after a training run swaps new artifacts in.
func (p *Predictor) Reload() {
	p.mu.Lock()
	p.bundle = nil
	p.mu.Unlock()
}

// Version reports the loaded bundle's version, empty before the first load.
func (p *Predictor) Version() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bundle == nil {
		return ""
	}
	return p.bundle.Version
}

// ensureBundle returns the cached bundle, loading it on first use. A load
// failure triggers one automatic retrain-and-retry before giving up.
func (p *Predictor) ensureBundle(ctx context.Context) (*Bundle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bundle != nil {
		return p.bundle, nil
	}

	bundle, err := p.load()
	if err != nil && p.retrainer != nil {
		if retrainErr := p.retrainer.Retrain(ctx); retrainErr != nil {
			return nil, fmt.Errorf("load failed (%v) and retrain failed: %w", err, retrainErr)
		}
		bundle, err = p.load()
	}
	if err != nil {
		return nil, err
	}
	p.bundle = bundle
	return bundle, nil
}

func (p *Predictor) load() (*Bundle, error) {
	bundle, err := p.loader.Load()
	if err != nil {
		return nil, err
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// PredictWaitTime estimates the wait in minutes at a checkpoint. An open
// checkpoint short-circuits to zero without touching the model; that is a
// business rule, not a model artifact, and holds regardless of model state.
func (p *Predictor) PredictWaitTime(ctx context.Context, f fence.Fence, current status.Label, at time.Time) WaitResult {
	if current == status.Open {
		return WaitResult{Success: true, WaitMinutes: 0}
	}

	bundle, err := p.ensureBundle(ctx)
	if err != nil {
		return WaitResult{Success: false, WaitMinutes: p.defaultWait, Err: err.Error()}
	}

	vec := features.Derive(f, current, at, bundle.Artifacts, p.params)
	scaled, err := bundle.Scaler.Transform(vec.Row())
	if err != nil {
		return WaitResult{Success: false, WaitMinutes: p.defaultWait, Err: err.Error()}
	}
	wait, err := bundle.WaitModel.Predict(scaled)
	if err != nil {
		return WaitResult{Success: false, WaitMinutes: p.defaultWait, Err: err.Error()}
	}

	if current == status.Closed {
		wait *= closedWaitFactor
	}
	minutes := int(math.Round(wait))
	if minutes < 0 {
		minutes = 0
	}
	return WaitResult{Success: true, WaitMinutes: minutes}
}

// PredictJamProbability estimates the severe-jam probability (in percent)
// at the arrival time current+travel. A fence missing from the one-hot
// training columns is an explicit failure: there is no safe fallback value.
func (p *Predictor) PredictJamProbability(ctx context.Context, fenceID int64, current time.Time, travelMinutes int) JamResult {
	if travelMinutes < 0 {
		return JamResult{Success: false, Err: "travel time must be non-negative"}
	}
	bundle, err := p.ensureBundle(ctx)
	if err != nil {
		return JamResult{Success: false, Err: err.Error()}
	}

	arrival := current.Add(time.Duration(travelMinutes) * time.Minute)
	proba, err := bundle.JamModel.Proba(fenceID, features.TimeFeatures(arrival, p.params))
	if err != nil {
		return JamResult{Success: false, Err: err.Error()}
	}
	return JamResult{Success: true, JamPercent: math.Round(proba*1000) / 10}
}
