// Package montecarlo cross-checks linear error propagation by evaluating an
// expression on normally distributed draws of its inputs.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"strconv"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/buckingham/internal/logging"
	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/rpn"
	"github.com/san-kum/buckingham/internal/units"
)

const (
	DefaultSamples = 10000
	minChunk       = 256
)

var ErrNoSamples = errors.New("montecarlo: every sample failed to evaluate")

type Config struct {
	Tokens   []string
	Vars     map[string]quantity.Quantity
	Registry *units.Registry
	To       string
	Samples  int
	Seed     uint64
	Workers  int
	Log      logr.Logger
}

type Result struct {
	// Linear is the expression evaluated with first-order propagation.
	Linear quantity.Quantity
	Mean   float64
	StdDev float64
	// Samples counts successful evaluations; Failed counts draws that fell
	// outside the expression's domain, e.g. log of a negative value.
	Samples int
	Failed  int
	Units   string
}

// RelDiff is the relative gap between the sampled spread and the linear
// error. It is NaN when the linear error is zero.
func (r *Result) RelDiff() float64 {
	if r.Linear.Uncertainty() == 0 {
		return math.NaN()
	}
	return math.Abs(r.StdDev-math.Abs(r.Linear.Uncertainty())) / math.Abs(r.Linear.Uncertainty())
}

type input struct {
	name string
	q    quantity.Quantity
}

// prepare lifts uncertain literals such as "4±2" into variables so that
// they are sampled as well.
func prepare(cfg Config) ([]string, []input) {
	tokens := make([]string, 0, len(cfg.Tokens)+1)
	var inputs []input
	for name, q := range cfg.Vars {
		inputs = append(inputs, input{name: name, q: q})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].name < inputs[j].name })
	for i, tok := range cfg.Tokens {
		if _, shadowed := cfg.Vars[tok]; !shadowed {
			if q, err := rpn.ParseNumber(tok); err == nil && q.Uncertainty() != 0 {
				name := "_lit" + strconv.Itoa(i)
				inputs = append(inputs, input{name: name, q: q})
				tok = name
			}
		}
		tokens = append(tokens, tok)
	}
	if cfg.To != "" {
		tokens = append(tokens, rpn.ConvertPrefix+cfg.To)
	}
	return tokens, inputs
}

// Run evaluates the expression once with error propagation and then
// cfg.Samples times on error-free draws, in parallel chunks. Worker w seeds
// its source with cfg.Seed+w.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultSamples
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n := cfg.Samples / minChunk; n < workers {
		workers = max(n, 1)
	}

	tokens, inputs := prepare(cfg)
	linearVars := make(map[string]quantity.Quantity, len(inputs))
	for _, in := range inputs {
		linearVars[in.name] = in.q
	}
	ev := &rpn.Evaluator{Registry: cfg.Registry, Vars: linearVars, Log: cfg.Log}
	linear, err := ev.Eval(tokens)
	if err != nil {
		return nil, fmt.Errorf("linear evaluation: %w", err)
	}

	values := make([]float64, cfg.Samples)
	chunk := (cfg.Samples + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		start := w * chunk
		end := min(start+chunk, cfg.Samples)
		if start >= end {
			break
		}
		g.Go(func() error {
			return sampleChunk(ctx, cfg, tokens, inputs, cfg.Seed+uint64(w), values[start:end])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := values[:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			ok = append(ok, v)
		}
	}
	failed := cfg.Samples - len(ok)
	if len(ok) == 0 {
		return nil, ErrNoSamples
	}

	mean, std := stat.MeanStdDev(ok, nil)
	if len(ok) == 1 {
		std = 0
	}
	res := &Result{
		Linear:  linear,
		Mean:    mean,
		StdDev:  std,
		Samples: len(ok),
		Failed:  failed,
		Units:   linear.Units(),
	}
	cfg.Log.V(logging.DEBUG).Info("monte carlo done", "samples", res.Samples, "failed", failed, "workers", workers,
		"mean", mean, "stddev", std, "linear", linear.String())
	return res, nil
}

func sampleChunk(ctx context.Context, cfg Config, tokens []string, inputs []input, seed uint64, out []float64) error {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	dists := make([]distuv.Normal, len(inputs))
	for i, in := range inputs {
		dists[i] = distuv.Normal{Mu: in.q.Value(), Sigma: math.Abs(in.q.Uncertainty()), Src: src}
	}

	vars := make(map[string]quantity.Quantity, len(inputs))
	ev := &rpn.Evaluator{Registry: cfg.Registry, Vars: vars}

	for i := range out {
		if i%minChunk == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, in := range inputs {
			x := in.q.Value()
			if dists[j].Sigma > 0 {
				x = dists[j].Rand()
			}
			vars[in.name] = quantity.FromDims(x, 0, in.q.Dims())
		}
		q, err := ev.Eval(tokens)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = q.Value()
	}
	return nil
}
