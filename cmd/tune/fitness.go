package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/munchers/config"
	"github.com/pthm-cable/munchers/game"
	"github.com/pthm-cable/munchers/telemetry"
)

// Targets is the arena the tuner steers towards.
type Targets struct {
	Munchers float64 // mean munchers on screen
	Foodlets float64 // mean foodlets on screen
}

// Score component weights.
const (
	weightMunchers  = 1.0
	weightFoodlets  = 0.5
	weightStability = 0.3
	weightEmpty     = 2.0 // per window with no munchers at all

	warmupWindows = 2 // skip the first windows while the arena fills
)

// FitnessEvaluator runs headless sessions and scores them.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int32
	seeds    []int64
	base     *config.Config
	targets  Targets

	mu       sync.Mutex
	lastMean float64 // mean munchers from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, base *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     base,
		targets:  targets,
	}
}

// LastMeanMunchers returns the mean muncher count of the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanMunchers() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// seedResult holds the outcome of one seed.
type seedResult struct {
	score        float64
	meanMunchers float64
}

// Evaluate scores a raw parameter vector averaged over all seeds (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx] = seedResult{
				score:        fe.targets.Score(windows),
				meanMunchers: meanMunchers(windows),
			}
		}(i, seed)
	}
	wg.Wait()

	var total, totalMean float64
	for _, r := range results {
		total += r.score
		totalMean += r.meanMunchers
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastMean = totalMean / n
	fe.mu.Unlock()

	return total / n
}

// runSimulation plays one playerless session and returns its window stats.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.base.Clone()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(game.Options{
		Config:   cfg,
		Seed:     seed,
		NoPlayer: true,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// Score rates a session's windows against the targets (lower = better).
// A session too short to leave the warmup scores +Inf.
func (t Targets) Score(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return math.Inf(1)
	}
	windows = windows[warmupWindows:]

	munchers := make([]float64, len(windows))
	foodlets := make([]float64, len(windows))
	empty := 0
	for i, w := range windows {
		munchers[i] = float64(w.Munchers)
		foodlets[i] = float64(w.Foodlets)
		if w.Munchers == 0 {
			empty++
		}
	}

	mMean, mStd := stat.MeanStdDev(munchers, nil)
	fMean := stat.Mean(foodlets, nil)
	if math.IsNaN(mStd) {
		mStd = 0
	}

	score := weightMunchers * relErr2(mMean, t.Munchers)
	score += weightFoodlets * relErr2(fMean, t.Foodlets)
	score += weightStability * mStd / max(t.Munchers, 1)
	score += weightEmpty * float64(empty) / float64(len(windows))
	return score
}

// relErr2 is the squared error of got relative to want.
func relErr2(got, want float64) float64 {
	d := (got - want) / max(want, 1)
	return d * d
}

func meanMunchers(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 0
	}
	xs := make([]float64, len(windows))
	for i, w := range windows {
		xs[i] = float64(w.Munchers)
	}
	return stat.Mean(xs, nil)
}
