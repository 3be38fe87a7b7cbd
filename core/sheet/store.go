package sheet

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Store is the gateway to the remote row store.
type Store interface {
	// FetchSheet returns the rows of name. Cached rows are used unless useCache is given as false.
	// Errors are *FetchError or *RemoteError.
	FetchSheet(ctx context.Context, name string, useCache ...bool) ([]Row, error)
	// AppendRow appends row positionally to name and always invalidates its cache entry.
	// A transport failure is a *WriteError; otherwise the caller must handle every Ack kind.
	AppendRow(ctx context.Context, name string, row []string) (Ack, error)
	Invalidate(name string)
	InvalidateAll()
}

// FetchAll fetches independent sheets concurrently. Results are in names order.
func FetchAll(ctx context.Context, store Store, useCache bool, names ...string) ([][]Row, error) {
	results := make([][]Row, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			rows, err := store.FetchSheet(ctx, name, useCache)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
