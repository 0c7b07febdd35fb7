package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopmesh/inference"
)

type sliceSource struct {
	products []ProductContent
	calls    int
}

func (s *sliceSource) NextBatch(_ context.Context, offset, limit int, onlyMissing bool) ([]ProductContent, error) {
	s.calls++
	if onlyMissing {
		// The fake has no embedding column; treat every product as missing
		// and consume from the front like a shrinking result set.
		offset = 0
	}
	if offset >= len(s.products) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.products) {
		end = len(s.products)
	}
	batch := s.products[offset:end]
	if onlyMissing {
		s.products = s.products[end:]
	}
	return batch, nil
}

type recordingSink struct {
	stored  []ProductEmbedding
	failFor map[string]error
}

func (s *recordingSink) Store(_ context.Context, embedding ProductEmbedding) error {
	if err := s.failFor[embedding.ProductID]; err != nil {
		return err
	}
	s.stored = append(s.stored, embedding)
	return nil
}

type fixedEmbedder struct {
	err   error
	calls int
}

func (e *fixedEmbedder) GenerateEmbedding(_ context.Context, _ string) (*inference.EmbeddingResponse, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return &inference.EmbeddingResponse{
		Embedding:  []float32{0.1, 0.2, 0.3},
		Dimensions: 3,
		Model:      "sentence-transformers/all-MiniLM-L6-v2",
	}, nil
}

func products(n int) []ProductContent {
	out := make([]ProductContent, n)
	for i := range out {
		out[i] = ProductContent{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Product %d", i+1)}
	}
	return out
}

func TestBackfillerRun(t *testing.T) {
	source := &sliceSource{products: products(5)}
	sink := &recordingSink{}
	embedder := &fixedEmbedder{}

	result, err := NewBackfiller(source, sink, embedder).Run(context.Background(), BackfillOptions{
		BatchSize:   2,
		OnlyMissing: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 5, result.Succeeded)
	assert.Zero(t, result.Failed)
	require.Len(t, sink.stored, 5)
	assert.Equal(t, "p1", sink.stored[0].ProductID)
	assert.Equal(t, 3, sink.stored[0].Dimensions)
	assert.Equal(t, "product_id: p1\nname: Product 1", sink.stored[0].EmbeddingText)
}

func TestBackfillerCollectsFailures(t *testing.T) {
	source := &sliceSource{products: products(3)}
	sink := &recordingSink{failFor: map[string]error{"p2": errors.New("connection reset")}}
	embedder := &fixedEmbedder{}

	result, err := NewBackfiller(source, sink, embedder).Run(context.Background(), BackfillOptions{OnlyMissing: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "p2", result.Failures[0].ProductID)
	assert.Contains(t, result.Failures[0].Reason, "connection reset")
}

func TestBackfillerMaxProducts(t *testing.T) {
	source := &sliceSource{products: products(10)}
	sink := &recordingSink{}
	embedder := &fixedEmbedder{}

	result, err := NewBackfiller(source, sink, embedder).Run(context.Background(), BackfillOptions{
		BatchSize:   4,
		MaxProducts: 3,
		OnlyMissing: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 3, embedder.calls)
	assert.Len(t, sink.stored, 3)
}

func TestBackfillerSourceErrorAborts(t *testing.T) {
	source := &failingSource{err: errors.New("catalog unavailable")}

	result, err := NewBackfiller(source, &recordingSink{}, &fixedEmbedder{}).Run(context.Background(), BackfillOptions{})
	require.Error(t, err)
	assert.Zero(t, result.Processed)
}

type failingSource struct {
	err error
}

func (s *failingSource) NextBatch(context.Context, int, int, bool) ([]ProductContent, error) {
	return nil, s.err
}
