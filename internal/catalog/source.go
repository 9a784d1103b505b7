package catalog

import (
	"context"
)

// Source fetches the raw program list from a feed. Implementations must be
// safe to call from the refresh loop and a worker at the same time.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Program, error)
}
