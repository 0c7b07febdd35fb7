package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/hupe1980/shopmesh/inference"
	"github.com/hupe1980/shopmesh/logging"
)

// ProductSource pages through the products eligible for embedding
// generation. Implementations back onto whatever catalog storage the
// marketplace uses.
type ProductSource interface {
	// NextBatch returns up to limit products starting at offset. When
	// onlyMissing is set, products that already carry an embedding are
	// skipped. An empty slice signals the end of the catalog.
	NextBatch(ctx context.Context, offset, limit int, onlyMissing bool) ([]ProductContent, error)
}

// ProductEmbedding is one generated vector ready for persistence.
type ProductEmbedding struct {
	ProductID     string
	Model         string
	Dimensions    int
	Vector        pgvector.Vector
	EmbeddingText string
	GeneratedAt   time.Time
}

// EmbeddingSink persists generated product embeddings.
type EmbeddingSink interface {
	Store(ctx context.Context, embedding ProductEmbedding) error
}

// Embedder is the slice of the inference client the backfiller depends on.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input string) (*inference.EmbeddingResponse, error)
}

const (
	defaultBatchSize = 20
	maxBatchSize     = 200
)

// BackfillOptions tune a backfill run.
type BackfillOptions struct {
	// BatchSize is clamped into [1, 200]. Defaults to 20.
	BatchSize int
	// MaxProducts caps how many products are processed. Zero means no cap.
	MaxProducts int
	// OnlyMissing restricts the run to products without an embedding.
	OnlyMissing bool
	// Logger receives structured progress. Defaults to NoOpLogger.
	Logger logging.Logger
}

// BackfillFailure records why one product could not be embedded.
type BackfillFailure struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

// BackfillResult summarizes a backfill run.
type BackfillResult struct {
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Failures  []BackfillFailure `json:"failures"`
}

// Backfiller walks the product catalog and generates one embedding per
// product. Individual product failures are collected in the result; only
// source and context errors abort the run.
type Backfiller struct {
	source   ProductSource
	sink     EmbeddingSink
	embedder Embedder
}

// NewBackfiller constructs a Backfiller over the given source, sink and
// embedding generator.
func NewBackfiller(source ProductSource, sink EmbeddingSink, embedder Embedder) *Backfiller {
	return &Backfiller{
		source:   source,
		sink:     sink,
		embedder: embedder,
	}
}

// Run executes one backfill pass.
func (b *Backfiller) Run(ctx context.Context, opts BackfillOptions) (*BackfillResult, error) {
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	result := &BackfillResult{Failures: []BackfillFailure{}}
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if opts.MaxProducts > 0 && result.Processed >= opts.MaxProducts {
			break
		}

		limit := batchSize
		if opts.MaxProducts > 0 {
			if remaining := opts.MaxProducts - result.Processed; remaining < limit {
				limit = remaining
			}
		}

		// Missing-embedding queries shrink as rows gain embeddings, so
		// they always page from the start.
		batchOffset := offset
		if opts.OnlyMissing {
			batchOffset = 0
		}

		batch, err := b.source.NextBatch(ctx, batchOffset, limit, opts.OnlyMissing)
		if err != nil {
			return result, fmt.Errorf("load products for embedding backfill: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, product := range batch {
			if opts.MaxProducts > 0 && result.Processed >= opts.MaxProducts {
				break
			}
			result.Processed++

			if err := b.embedProduct(ctx, product); err != nil {
				result.Failed++
				result.Failures = append(result.Failures, BackfillFailure{
					ProductID: product.ID,
					Reason:    err.Error(),
				})
				logger.Warn("product embedding failed", "product_id", product.ID, "error", err)
				continue
			}
			result.Succeeded++
		}

		logger.Info("embedding batch completed",
			"batch_size", len(batch),
			"processed", result.Processed,
			"failed", result.Failed,
		)

		if len(batch) < limit {
			break
		}
		if !opts.OnlyMissing {
			offset += limit
		}
	}

	return result, nil
}

func (b *Backfiller) embedProduct(ctx context.Context, product ProductContent) error {
	text := BuildEmbeddingText(product)

	resp, err := b.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return err
	}

	return b.sink.Store(ctx, ProductEmbedding{
		ProductID:     product.ID,
		Model:         resp.Model,
		Dimensions:    resp.Dimensions,
		Vector:        pgvector.NewVector(resp.Embedding),
		EmbeddingText: text,
		GeneratedAt:   time.Now().UTC(),
	})
}
