package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// RemotePantry is the subset of the API client the pantry needs.
type RemotePantry interface {
	GetPantry(ctx context.Context) ([]model.PantryItem, error)
	UpsertPantryItem(ctx context.Context, req *model.PantryUpsertRequest) (*model.PantryItem, error)
	DeletePantryItem(ctx context.Context, name string) error
}

// ItemPatch is a partial pantry update. Nil fields keep the item's current
// value; the merged full state is what gets sent to the server.
type ItemPatch struct {
	Quantity   *string
	ExpiryDate *time.Time
}

// Pantry keeps the local pantry collection in sync with the remote store.
// Items are keyed by case-insensitive name, matching the server. The server
// upsert is create-or-replace, so partial updates must merge against a local
// snapshot; Update therefore refuses to run before the first Hydrate.
type Pantry struct {
	remote   RemotePantry
	logger   zerolog.Logger
	items    []model.PantryItem
	hydrated bool
}

// NewPantry creates an empty pantry. Call Hydrate after login.
func NewPantry(remote RemotePantry, logger zerolog.Logger) *Pantry {
	return &Pantry{
		remote: remote,
		logger: logger.With().Str("component", "pantry").Logger(),
	}
}

// Hydrate replaces the local collection with the server's. Expiry timestamps
// are truncated to their date so display and comparison ignore time of day.
func (p *Pantry) Hydrate(ctx context.Context) error {
	items, err := p.remote.GetPantry(ctx)
	if err != nil {
		return fmt.Errorf("hydrate pantry: %w", err)
	}

	p.items = make([]model.PantryItem, 0, len(items))
	for _, item := range items {
		p.items = append(p.items, normalizeItem(item))
	}
	p.hydrated = true

	p.logger.Debug().Int("count", len(p.items)).Msg("pantry hydrated")
	return nil
}

// Upsert sends the full desired state of an item to the server, then replaces
// any same-named local entry (case-insensitive) with the item as the server
// stored it.
func (p *Pantry) Upsert(ctx context.Context, req model.PantryUpsertRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	stored, err := p.remote.UpsertPantryItem(ctx, &req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPantryFailed, err)
	}

	p.replaceLocal(normalizeItem(*stored))
	return nil
}

// Update applies a partial patch to a named item. The patch is merged with
// the local snapshot to produce full state, because the server replaces the
// whole item on upsert. Patching before hydration would silently wipe the
// unpatched fields, so it is rejected.
func (p *Pantry) Update(ctx context.Context, name string, patch ItemPatch) error {
	if !p.hydrated {
		return model.ErrNotHydrated
	}

	req := model.PantryUpsertRequest{Name: strings.TrimSpace(name)}
	if current := p.find(name); current != nil {
		req.Name = current.Name
		req.Quantity = current.Quantity
		req.ExpiryDate = current.ExpiryDate
	}
	if patch.Quantity != nil {
		req.Quantity = *patch.Quantity
	}
	if patch.ExpiryDate != nil {
		req.ExpiryDate = patch.ExpiryDate
	}

	return p.Upsert(ctx, req)
}

// Remove deletes an item remotely, then drops the same-named local entry.
func (p *Pantry) Remove(ctx context.Context, name string) error {
	if err := p.remote.DeletePantryItem(ctx, name); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPantryFailed, err)
	}

	kept := p.items[:0]
	for _, item := range p.items {
		if !strings.EqualFold(item.Name, name) {
			kept = append(kept, item)
		}
	}
	p.items = kept
	return nil
}

// Items returns the collection in display order, newest first.
func (p *Pantry) Items() []model.PantryItem {
	out := make([]model.PantryItem, len(p.items))
	copy(out, p.items)
	return out
}

// Hydrated reports whether the collection reflects a server snapshot.
func (p *Pantry) Hydrated() bool {
	return p.hydrated
}

// Count returns the number of pantry items.
func (p *Pantry) Count() int {
	return len(p.items)
}

// Clear drops all local state without touching the server. Used on logout.
func (p *Pantry) Clear() {
	p.items = nil
	p.hydrated = false
}

func (p *Pantry) find(name string) *model.PantryItem {
	for i := range p.items {
		if strings.EqualFold(p.items[i].Name, name) {
			return &p.items[i]
		}
	}
	return nil
}

// replaceLocal removes any entry with the same case-normalized name and
// prepends the replacement, keeping newest-first order.
func (p *Pantry) replaceLocal(item model.PantryItem) {
	kept := make([]model.PantryItem, 0, len(p.items)+1)
	kept = append(kept, item)
	for _, existing := range p.items {
		if !strings.EqualFold(existing.Name, item.Name) {
			kept = append(kept, existing)
		}
	}
	p.items = kept
}

func normalizeItem(item model.PantryItem) model.PantryItem {
	if item.ExpiryDate != nil {
		truncated := truncateToDate(*item.ExpiryDate)
		item.ExpiryDate = &truncated
	}
	return item
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
