package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and by installs that run
// without a database. Documents are deep-copied on the way in and out
// so callers never alias stored state.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Document),
	}
}

func (m *Memory) Query(ctx context.Context, collection string, preds ...Predicate) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, doc := range m.collections[collection] {
		if matches(doc, preds) {
			out = append(out, cloneDocument(doc))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i]["id"].(string)
		b, _ := out[j]["id"].(string)
		return a < b
	})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return cloneDocument(doc), nil
}

func (m *Memory) Create(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}

	id := uuid.NewString()
	stored := cloneDocument(doc)
	stored["id"] = id
	m.collections[collection][id] = stored
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, partial Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	for k, v := range partial {
		if k == "id" {
			continue
		}
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = cloneValue(v)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func matches(doc Document, preds []Predicate) bool {
	for _, p := range preds {
		got, ok := doc[p.Field]
		switch p.Op {
		case OpEqual:
			if !ok || !valueEqual(got, p.Value) {
				return false
			}
		case OpIn:
			values, _ := p.Value.([]interface{})
			found := false
			if ok {
				for _, v := range values {
					if valueEqual(got, v) {
						found = true
						break
					}
				}
			}
			if !found {
				return false
			}
		case OpContains:
			if !ok || !sliceContains(got, p.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// valueEqual compares stored and queried values, treating all numeric
// types as one domain so that a query written with an int matches a
// document decoded from JSON as float64.
func valueEqual(a, b interface{}) bool {
	na, aok := toFloat(a)
	nb, bok := toFloat(b)
	if aok && bok {
		return na == nb
	}
	return a == b
}

func sliceContains(field, value interface{}) bool {
	switch list := field.(type) {
	case []interface{}:
		for _, e := range list {
			if valueEqual(e, value) {
				return true
			}
		}
	case []string:
		s, ok := value.(string)
		if !ok {
			return false
		}
		for _, e := range list {
			if e == s {
				return true
			}
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Document:
		return cloneDocument(t)
	case map[string]interface{}:
		return map[string]interface{}(cloneDocument(Document(t)))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
