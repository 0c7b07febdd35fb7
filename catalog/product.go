package catalog

import (
	"fmt"
	"strings"
)

// ProductContent is the subset of a product used to build its embedding
// text. Only ID and Name are mandatory; empty optional fields are omitted
// from the text.
type ProductContent struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Description      string   `json:"description,omitempty"`
	Category         string   `json:"category,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	SKU              string   `json:"sku,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// BuildEmbeddingText renders a product into the deterministic line format
// fed to the embedding model. Identical products always produce identical
// text, so regenerated embeddings are stable.
func BuildEmbeddingText(content ProductContent) string {
	lines := []string{
		fmt.Sprintf("product_id: %s", content.ID),
		fmt.Sprintf("name: %s", content.Name),
	}

	appendLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, value))
		}
	}
	appendLine("short_description", content.ShortDescription)
	appendLine("description", content.Description)
	appendLine("category", content.Category)
	appendLine("brand", content.Brand)
	appendLine("sku", content.SKU)
	if len(content.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(content.Tags, ", ")))
	}

	return strings.Join(lines, "\n")
}
