// Package docstore provides the document persistence port for the
// application. Entities are stored as schemaless documents keyed by
// (collection, id); queries support equality and membership predicates
// only, and every write touches a single document. There are no
// multi-document transactions, so callers own any cross-document
// consistency they need.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is one stored record. Documents returned by a Store always
// carry their id under the "id" key.
type Document map[string]interface{}

type Op string

const (
	OpEqual    Op = "=="
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// Predicate is one condition of a query. Multiple predicates are ANDed.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

func In(field string, values ...interface{}) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

// Contains matches documents whose array field holds the given value.
func Contains(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpContains, Value: value}
}

type Store interface {
	// Query returns every document in the collection matching all
	// predicates. No predicates means the whole collection.
	Query(ctx context.Context, collection string, preds ...Predicate) ([]Document, error)

	// Get returns one document by id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Create stores a new document under a generated id and returns it.
	// Any "id" key in the input is ignored.
	Create(ctx context.Context, collection string, doc Document) (string, error)

	// Update merges partial into an existing document. A nil value
	// removes that field, JSON merge patch style. Returns ErrNotFound
	// when the document does not exist.
	Update(ctx context.Context, collection, id string, partial Document) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error
}
