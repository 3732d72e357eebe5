package tasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultImportWorkers   = 4
	MaxImportWorkers       = 10
	DefaultImportRateLimit = 5.0
)

// ImportStatus classifies the outcome for one input of a bulk import.
type ImportStatus string

const (
	StatusImported ImportStatus = "imported"
	StatusExists   ImportStatus = "exists"
	StatusInvalid  ImportStatus = "invalid"
	StatusFailed   ImportStatus = "failed"
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Catalog imports started per second (default: 5)
}

// ImportResult is the outcome for a single input.
type ImportResult struct {
	Input   string              `json:"input"`
	Status  ImportStatus        `json:"status"`
	TrackID string              `json:"track_id,omitempty"`
	Track   *models.TrackDetail `json:"track,omitempty"`
	Error   error               `json:"-"`
	Message string              `json:"error,omitempty"`
}

// BulkImportResult summarizes a bulk import. Results follow input order.
type BulkImportResult struct {
	Total    int            `json:"total"`
	Imported int            `json:"imported"`
	Existing int            `json:"existing"`
	Invalid  int            `json:"invalid"`
	Failed   int            `json:"failed"`
	Results  []ImportResult `json:"results"`
}

type importJob struct {
	index int
	input string
}

type indexedResult struct {
	index  int
	result ImportResult
}

// BulkImport imports many identifiers concurrently with rate limiting and progress tracking.
//
// Each input goes through [Importer.Import], so duplicate handling is the same as for single imports.
// Invalid identifiers are rejected without consuming the rate limit.
// Inputs not started before ctx is cancelled are reported as failed.
func (i *Importer) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	inputs []string,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if i.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultImportWorkers
	}
	if opts.NumWorkers > MaxImportWorkers {
		opts.NumWorkers = MaxImportWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultImportRateLimit
	}

	result := &BulkImportResult{
		Total:   len(inputs),
		Results: make([]ImportResult, len(inputs)),
	}
	sendProgress(prog, importStartUpdate(len(inputs), opts.NumWorkers))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob, len(inputs))
	results := make(chan indexedResult, len(inputs))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go i.importWorker(ctx, &wg, limiter, jobs, results)
	}

	for idx, input := range inputs {
		jobs <- importJob{index: idx, input: input}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.index] = res.result

		switch res.result.Status {
		case StatusImported:
			result.Imported++
		case StatusExists:
			result.Existing++
		case StatusInvalid:
			result.Invalid++
		default:
			result.Failed++
		}
		sendProgress(prog, importTrackUpdate(completed, len(inputs), res.result))
	}

	sendProgress(prog, importDoneUpdate(result))
	i.logger.Info("bulk import finished",
		"total", result.Total, "imported", result.Imported, "existing", result.Existing,
		"invalid", result.Invalid, "failed", result.Failed)

	return result, nil
}

// importWorker is a worker goroutine that imports identifiers from the jobs channel.
func (i *Importer) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan importJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		results <- indexedResult{index: job.index, result: i.importOne(ctx, limiter, job.input)}
	}
}

func (i *Importer) importOne(ctx context.Context, limiter *rate.Limiter, input string) ImportResult {
	if _, err := ExtractTrackID(input); err != nil {
		return classifyResult(input, nil, err)
	}

	if err := ctx.Err(); err != nil {
		return classifyResult(input, nil, err)
	}
	if err := limiter.Wait(ctx); err != nil {
		return classifyResult(input, nil, err)
	}

	track, err := i.Import(ctx, input)
	return classifyResult(input, track, err)
}

// classifyResult maps an Import outcome onto an [ImportStatus].
func classifyResult(input string, track *models.TrackDetail, err error) ImportResult {
	res := ImportResult{Input: input}

	var exists *shared.AlreadyExistsError
	switch {
	case err == nil:
		res.Status = StatusImported
		res.Track = track
		res.TrackID = track.ID
		return res
	case errors.As(err, &exists):
		res.Status = StatusExists
		res.TrackID = exists.TrackID
	case errors.Is(err, shared.ErrInvalidIdentifier):
		res.Status = StatusInvalid
	default:
		res.Status = StatusFailed
	}

	res.Error = err
	res.Message = err.Error()
	return res
}

// ReadIdentifiers reads one identifier per line, skipping blank lines and # comments.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	var ids []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	return ids, nil
}
