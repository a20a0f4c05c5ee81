package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/models"
)

// Indexer makes a submitted application searchable for caseworkers.
type Indexer interface {
	Index(ctx context.Context, rec *models.ApplicationRecord) error
}

// ElasticIndexer writes one document per application, keyed by
// reference number.
type ElasticIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndexer(client *elasticsearch.Client, index string) *ElasticIndexer {
	return &ElasticIndexer{client: client, index: index}
}

func (e *ElasticIndexer) Index(ctx context.Context, rec *models.ApplicationRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewIndexFailedError(err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(rec.ReferenceNumber),
	)
	if err != nil {
		return apperrors.NewIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewIndexFailedError(fmt.Errorf("index %s: %s", e.index, res.Status()))
	}
	return nil
}
