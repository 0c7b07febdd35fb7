package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmbeddingText(t *testing.T) {
	content := ProductContent{
		ID:               "p1",
		Name:             "Trail Runner X",
		ShortDescription: "Grippy trail shoe",
		Description:      "A shoe for wet and rocky trails.",
		Category:         "shoes",
		Brand:            "Acme",
		SKU:              "TRX-42",
		Tags:             []string{"trail", "waterproof"},
	}

	want := "product_id: p1\n" +
		"name: Trail Runner X\n" +
		"short_description: Grippy trail shoe\n" +
		"description: A shoe for wet and rocky trails.\n" +
		"category: shoes\n" +
		"brand: Acme\n" +
		"sku: TRX-42\n" +
		"tags: trail, waterproof"

	assert.Equal(t, want, BuildEmbeddingText(content))
}

func TestBuildEmbeddingTextOmitsEmptyFields(t *testing.T) {
	content := ProductContent{ID: "p1", Name: "Basic Tee", Brand: "   "}

	assert.Equal(t, "product_id: p1\nname: Basic Tee", BuildEmbeddingText(content))
}

func TestBuildEmbeddingTextIsDeterministic(t *testing.T) {
	content := ProductContent{ID: "p1", Name: "Basic Tee", Tags: []string{"b", "a"}}

	assert.Equal(t, BuildEmbeddingText(content), BuildEmbeddingText(content))
}
