package pipeline

import (
	"runtime"
	"sync"

	"github.com/biogo/hts/sam"

	"github.com/openvax/isovar-go/internal/result"
	"github.com/openvax/isovar-go/internal/vcf"
)

// WorkItem holds one variant and its candidate records, ready for
// processing.
type WorkItem struct {
	Seq     int
	Variant *vcf.Variant
	Records []*sam.Record
}

// WorkResult holds the processing output for a single variant.
type WorkResult struct {
	Seq     int
	Variant *vcf.Variant
	Result  *result.Result
	Err     error
}

// parallelProcess fans work items out to a pool of workers. Results
// arrive on the returned channel in completion order, not sequence
// order; use OrderedCollect to consume them in order. Zero workers
// means runtime.NumCPU().
func (p *Pipeline) parallelProcess(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				r, err := p.ProcessVariant(item.Variant, item.Records)
				results <- WorkResult{
					Seq:     item.Seq,
					Variant: item.Variant,
					Result:  r,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until the next expected
// sequence number arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
