package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quillcast/reel/internal/collection"
	"github.com/quillcast/reel/internal/model"
)

// CollectionGateway adapts the REST collection endpoints to the
// collection.Gateway contract for one item type. One gateway instance can
// serve any number of collection kinds that share the item type.
type CollectionGateway[T any] struct {
	c *HTTPClient
}

// NewCollectionGateway creates a gateway over the given base client.
func NewCollectionGateway[T any](c *HTTPClient) *CollectionGateway[T] {
	return &CollectionGateway[T]{c: c}
}

// Load fetches the full collection snapshot.
func (g *CollectionGateway[T]) Load(ctx context.Context, kind string) (collection.Snapshot[T], error) {
	var resp struct {
		Items    []T   `json:"items"`
		Revision int64 `json:"revision"`
	}
	if err := g.c.doJSON(ctx, http.MethodGet, "/v1/collections/"+url.PathEscape(kind), nil, &resp); err != nil {
		return collection.Snapshot[T]{}, err
	}
	return collection.Snapshot[T]{Items: resp.Items, Revision: resp.Revision}, nil
}

// Save replaces the full collection. A 409 from the server means another
// writer saved since the snapshot's base revision; it is surfaced as
// collection.ErrConflict so the store can mark itself stale.
func (g *CollectionGateway[T]) Save(ctx context.Context, kind string, snap collection.Snapshot[T]) (collection.Ack, error) {
	var resp struct {
		Revision int64 `json:"revision"`
	}
	err := g.c.doJSON(ctx, http.MethodPut, "/v1/collections/"+url.PathEscape(kind), snap, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return collection.Ack{}, fmt.Errorf("save %s: %w", kind, collection.ErrConflict)
		}
		return collection.Ack{}, err
	}
	return collection.Ack{Revision: resp.Revision}, nil
}

// ListCollections returns revision metadata for every collection the server
// has persisted.
func (c *HTTPClient) ListCollections(ctx context.Context) ([]*model.CollectionRecord, error) {
	var resp struct {
		Collections []*model.CollectionRecord `json:"collections"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/collections", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Collections, nil
}
