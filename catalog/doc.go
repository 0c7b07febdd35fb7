// Package catalog generates semantic embeddings for marketplace products.
//
// Products are read through a narrow ProductSource contract and the
// generated vectors are written through an EmbeddingSink; the storage
// behind both stays external. The Backfiller walks the catalog in batches,
// collecting per-product failures without aborting the run.
package catalog
