package objects

import "context"

// Page is one slice of a paginated listing. T is the entry type; C is
// the cursor type (an opaque token for plain listings, a key/version
// marker pair for versioned listings).
//
// A non-truncated page carries no meaningful cursor; a truncated page
// always does.
type Page[T, C any] struct {
	// Items are the entries of this page, in backend order.
	Items []T

	// Cursor resumes the listing at the next page.
	Cursor C

	// Truncated indicates more pages are available.
	Truncated bool
}

// FetchFunc returns one page of a listing, resuming at cursor. The zero
// cursor value requests the first page.
type FetchFunc[T, C any] func(ctx context.Context, cursor C) (Page[T, C], error)

// WalkPages drives fetch to exhaustion, passing every entry of every
// page to visit in order. fetch is invoked at least once, so an empty
// listing still costs one call.
//
// The walk is strictly sequential: each page's cursor depends on the
// previous page's result. A fetch or visit error aborts the walk and is
// returned unchanged; entries already visited stay visited. Context
// cancellation is honored between pages.
func WalkPages[T, C any](ctx context.Context, fetch FetchFunc[T, C], visit func(T) error) error {
	var cursor C
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}

		for _, item := range page.Items {
			if err := visit(item); err != nil {
				return err
			}
		}

		if !page.Truncated {
			return nil
		}
		cursor = page.Cursor
	}
}

// CollectPages drives fetch to exhaustion and returns all entries in
// order. See WalkPages for the walk contract.
func CollectPages[T, C any](ctx context.Context, fetch FetchFunc[T, C]) ([]T, error) {
	var items []T
	err := WalkPages(ctx, fetch, func(item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
