package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/preventia/risk-api/internal/domain"
	"github.com/preventia/risk-api/internal/logging"
)

const defaultBatchConcurrency = 4

// BatchItem is one request in a batch prediction.
type BatchItem struct {
	Disease string         `json:"disease"`
	Input   map[string]any `json:"input"`
}

// BatchResult holds the outcome of one batch item. Exactly one of Result
// and Error is set.
type BatchResult struct {
	Result *domain.PredictionResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// BatchProcessor runs predictions in parallel using a worker pool. Item
// failures are reported per item and never abort the batch.
type BatchProcessor struct {
	service     *Service
	concurrency int
	logger      logging.Logger
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(service *Service, concurrency int, logger logging.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &BatchProcessor{
		service:     service,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process runs all items through the pipeline. Results keep item order.
func (b *BatchProcessor) Process(ctx context.Context, items []BatchItem) []BatchResult {
	if len(items) == 0 {
		return []BatchResult{}
	}

	startTime := time.Now()
	results := make([]BatchResult, len(items))

	jobs := make(chan int, len(items))
	var wg sync.WaitGroup
	for w := 0; w < b.concurrency; w++ {
		wg.Add(1)
		go b.worker(ctx, jobs, items, results, &wg)
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	success := 0
	for _, r := range results {
		if r.Error == "" {
			success++
		}
	}

	b.logger.Info("batch prediction complete",
		logging.Int("total", len(items)),
		logging.Int("success", success),
		logging.Int("failed", len(items)-success),
		logging.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	)

	return results
}

// worker pulls item indexes from jobs so results land in order.
func (b *BatchProcessor) worker(
	ctx context.Context,
	jobs <-chan int,
	items []BatchItem,
	results []BatchResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for i := range jobs {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Error: ctx.Err().Error()}
			continue
		default:
		}

		result, err := b.service.Predict(ctx, items[i].Disease, items[i].Input)
		if err != nil {
			results[i] = BatchResult{Error: err.Error()}
			continue
		}
		results[i] = BatchResult{Result: result}
	}
}
