package sim

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gravlab/gravlab/internal/config"
)

// Batch runs several scenarios concurrently, one goroutine per
// scenario. Each run builds its own world, so runs never share state.
type Batch struct {
	Logger *zap.Logger
}

// NewBatch returns a batch runner. A nil logger is replaced with a
// no-op one.
func NewBatch(logger *zap.Logger) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{Logger: logger}
}

// Run executes every scenario and returns results in matching order.
// The first error wins; results are discarded in that case.
func (b *Batch) Run(ctx context.Context, scenarios []*config.Scenario) ([]*Result, error) {
	results := make([]*Result, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, sc *config.Scenario) {
			defer wg.Done()

			w, _, err := sc.BuildWorld()
			if err != nil {
				errs[idx] = err
				return
			}
			runner := NewRunner(sc.Law(), b.Logger)
			results[idx], errs[idx] = runner.Run(ctx, w, Config{Dt: sc.Dt, Duration: sc.Duration})
		}(i, sc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
