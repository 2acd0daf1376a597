package adapter

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// Embedding dimensions per provider. The similarity indexes are created
// with the same dimension; a provider switch requires re-indexing.
const (
	OpenAIEmbeddingDimension = 1536
	LocalEmbeddingDimension  = 768
)

// EmbeddingAdapter computes query embeddings against an OpenAI-compatible
// endpoint.
type EmbeddingAdapter struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	logger    *zap.Logger
}

// NewEmbeddingAdapter creates an embedding adapter for one fixed model.
func NewEmbeddingAdapter(client *openai.Client, model string, dimension int) *EmbeddingAdapter {
	return &EmbeddingAdapter{
		client:    client,
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
		logger:    logger.Get(),
	}
}

// Dimension returns the vector dimension this adapter produces.
func (a *EmbeddingAdapter) Dimension() int {
	return a.dimension
}

// Embed computes the embedding vector for one text.
func (a *EmbeddingAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: a.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, errors.NewProviderFault(string(a.model), 1, err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.NewProviderFault(string(a.model), 1, errNoEmbedding)
	}

	a.logger.Debug("Embedding computed",
		zap.String("model", string(a.model)),
		zap.Int("dimension", len(resp.Data[0].Embedding)),
	)
	return resp.Data[0].Embedding, nil
}

var errNoEmbedding = errors.NewBaseError(errors.ErrorTypeProvider, "no embedding in provider response", nil)
