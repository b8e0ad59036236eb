package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/qri-io/jsonschema"
	"github.com/workhive/workhive/pkg/repository"
)

// SchemaLoader loads and caches compiled JSON schemas from the repository,
// keyed by payload name.
type SchemaLoader struct {
	repo  repository.SchemaRepo
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewSchemaLoader(ctx context.Context, r repository.SchemaRepo) (*SchemaLoader, error) {
	l := &SchemaLoader{
		repo:  r,
		cache: make(map[string]*jsonschema.Schema),
	}
	// initial load
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

// GetSchema returns a compiled schema for a payload name.
func (l *SchemaLoader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Validate checks data against the named schema. A missing schema is not an
// error; payloads without a registered schema pass through.
func (l *SchemaLoader) Validate(ctx context.Context, name string, data []byte) error {
	rs, ok := l.GetSchema(name)
	if !ok {
		return nil
	}

	errs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("payload does not match %s schema: %s", name, errs[0].Error())
	}

	return nil
}

// Reload loads all schemas from the DB and compiles them.
func (l *SchemaLoader) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.repo.ListPayloadSchemas(ctx)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, r := range rows {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(r.SchemaJSON), rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", r.Name, err)
		}

		newCache[r.Name] = rs
	}

	l.cache = newCache
	return nil
}
