package glove

import (
	"context"

	"github.com/poiesic/remedy/textnorm"
	"github.com/tmc/langchaingo/embeddings"
)

// Client exposes a Table as a langchaingo embedding client. Each text is
// normalized and turned into its mean word vector.
type Client struct {
	table *Table
}

var _ embeddings.EmbedderClient = (*Client)(nil)

// NewClient wraps a loaded table.
func NewClient(table *Table) *Client {
	return &Client{table: table}
}

// CreateEmbedding returns one sentence vector per text, in input order.
func (c *Client) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = c.table.Mean(textnorm.Normalize(text))
	}
	return vectors, nil
}

// NewEmbedder wraps the table in a langchaingo Embedder.
func NewEmbedder(table *Table) (embeddings.Embedder, error) {
	return embeddings.NewEmbedder(NewClient(table), embeddings.WithStripNewLines(true))
}
