package ingest

import (
	"context"
	"fmt"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
)

// Seed registers the configured checkpoint names, folding aliases into
// their canonical spelling first. Registration is idempotent: names already
// present keep their stored coordinates.
func Seed(ctx context.Context, store history.Store, names []string, aliases map[string]string) error {
	for _, name := range names {
		canonical := fence.CanonicalName(name, aliases)
		if _, err := store.GetOrCreateFence(ctx, fence.Fence{Name: canonical}); err != nil {
			return fmt.Errorf("seed fence %q: %w", canonical, err)
		}
	}
	return nil
}
