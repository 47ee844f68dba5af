package ethrecover

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VerifyBatch verifies requests in parallel and returns one Outcome per
// request, in input order. Verification failures are reported in the
// outcomes; the returned error is only set when ctx is done before every
// request was checked, and requests that were not checked then report it.
//
// numWorkers <= 0 uses one worker per CPU.
func VerifyBatch(ctx context.Context, requests []*Request, numWorkers int) ([]Outcome, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	outcomes := make([]Outcome, len(requests))
	checked := make([]bool, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i, req := range requests {
		if gctx.Err() != nil {
			break
		}
		i, req := i, req // per-iteration copies (go directive is below 1.22)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = Outcome{Index: i, Err: req.Verify()}
			checked[i] = true
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// requests that never ran carry the context error, never a pass
		for i := range outcomes {
			if !checked[i] {
				outcomes[i] = Outcome{Index: i, Err: err}
			}
		}
		return outcomes, err
	}
	return outcomes, nil
}

// CountFailures returns how many outcomes did not verify.
func CountFailures(outcomes []Outcome) int {
	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	return failed
}
