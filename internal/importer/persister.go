package importer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// BatchSize bounds request size and latency per bulk insert; chosen
// empirically against the hosted database.
const BatchSize = 50

// ProductInserter is the persistence seam the persister writes through.
type ProductInserter interface {
	// BulkInsert persists all products in one statement; an error means the
	// whole batch was rejected.
	BulkInsert(ctx context.Context, products []*models.Product) error
	// Insert persists a single product.
	Insert(ctx context.Context, product *models.Product) error
}

// Persister commits validated candidates in fixed-size batches, falling back
// to per-record inserts when a batch fails so one bad record cannot sink its
// 49 neighbors. No transaction spans batches; partial success is expected and
// reported, not rolled back.
type Persister struct {
	inserter  ProductInserter
	batchSize int
	logger    *logrus.Logger
}

// NewPersister creates a Persister with the default batch size.
func NewPersister(inserter ProductInserter, logger *logrus.Logger) *Persister {
	return &Persister{
		inserter:  inserter,
		batchSize: BatchSize,
		logger:    logger,
	}
}

// Persist writes all candidates and returns the accumulated report.
// Per-record failures are observability events in Errors, never fatal.
func (p *Persister) Persist(ctx context.Context, candidates []CandidateProduct) *models.ImportResult {
	result := &models.ImportResult{
		Total:  len(candidates),
		Errors: make([]string, 0),
	}

	for start := 0; start < len(candidates); start += p.batchSize {
		end := start + p.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		batch := make([]*models.Product, 0, end-start)
		for _, c := range candidates[start:end] {
			batch = append(batch, c.ToProduct())
		}

		if err := p.inserter.BulkInsert(ctx, batch); err == nil {
			result.Successful += len(batch)
			continue
		} else if p.logger != nil {
			p.logger.WithFields(logrus.Fields{
				"batch_start": start,
				"batch_size":  len(batch),
			}).WithError(err).Warn("bulk insert failed, retrying records individually")
		}

		// Batch rejected: retry each record on its own.
		for i, product := range batch {
			if err := p.inserter.Insert(ctx, product); err != nil {
				result.Failed++
				result.Errors = append(result.Errors,
					fmt.Sprintf("record %d (%s): %v", start+i+1, product.Name, err))
			} else {
				result.Successful++
			}
		}
	}

	return result
}
