package main

import (
	"context"

	wiki2html "github.com/alnah/go-wiki2html"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input wiki2html.Input) (*wiki2html.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*wiki2html.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// PoolFactory creates a pool of size converters built with opts.
type PoolFactory func(size int, opts ...wiki2html.Option) Pool

// poolAdapter exposes a wiki2html.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *wiki2html.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production PoolFactory.
func newConverterPool(size int, opts ...wiki2html.Option) Pool {
	return &poolAdapter{pool: wiki2html.NewConverterPool(size, opts...)}
}

// Acquire gets a converter, creating it on first use.
func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release returns a converter to the pool. Converters of another type
// were not acquired here and are ignored.
func (a *poolAdapter) Release(c CLIConverter) {
	if conv, ok := c.(*wiki2html.Converter); ok {
		a.pool.Release(conv)
	}
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// Close stops the pool.
func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
