// Package catalog - Factory loading interface
package catalog

import (
	"context"

	"procost/core/types"
)

// Loader resolves factory snapshots from an external source. Factories are
// loaded once per session and treated as immutable reference data.
type Loader interface {
	// LoadFactory returns the factory identified by id
	LoadFactory(ctx context.Context, id string) (*types.Factory, error)

	// ListFactories returns the known factory ids
	ListFactories(ctx context.Context) ([]string, error)
}
