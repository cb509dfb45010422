package store

import (
	"context"
	"time"

	"github.com/matzehuels/arbor/pkg/observability"
)

// Observe wraps s so every call is reported to the registered store hooks.
func Observe(backend string, s Store) Store {
	return &observed{backend: backend, inner: s}
}

type observed struct {
	backend string
	inner   Store
}

func (o *observed) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOperation(ctx, o.backend, op, time.Since(start), err)
}

func (o *observed) Get(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	doc, err := o.inner.Get(ctx, id)
	o.report(ctx, "get", start, err)
	return doc, err
}

func (o *observed) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	err := o.inner.Put(ctx, doc)
	o.report(ctx, "put", start, err)
	return err
}

func (o *observed) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := o.inner.Delete(ctx, id)
	o.report(ctx, "delete", start, err)
	return err
}

func (o *observed) List(ctx context.Context) ([]Summary, error) {
	start := time.Now()
	out, err := o.inner.List(ctx)
	o.report(ctx, "list", start, err)
	return out, err
}

func (o *observed) Close() error { return o.inner.Close() }
