// Package memory provides an in-memory catalog and order store. It backs
// unit tests and the STORE=memory development mode, and is the reference
// implementation of the store invariants: monotonic never-reused ids,
// read-after-write visibility, and atomic stock adjustment.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
)

// Store implements catalog.Store and catalog.OrderStore over maps guarded
// by a single mutex.
type Store struct {
	mu  sync.Mutex
	seq int64

	products   map[int64]*productRecord
	attributes map[int64]domain.Attribute
	options    map[int64]domain.Option
	variations map[int64]*variationRecord
	stock      map[domain.PurchasableRef]int
	orders     map[int64]*domain.Order
}

// Compile-time interface checks.
var (
	_ catalog.Store      = (*Store)(nil)
	_ catalog.OrderStore = (*Store)(nil)
)

type productRecord struct {
	live     *domain.Product // nil once deleted
	versions map[int]domain.Product
}

type variationRecord struct {
	live     *domain.Variation // nil once deleted
	versions map[int]domain.Variation
	latest   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:   make(map[int64]*productRecord),
		attributes: make(map[int64]domain.Attribute),
		options:    make(map[int64]domain.Option),
		variations: make(map[int64]*variationRecord),
		stock:      make(map[domain.PurchasableRef]int),
		orders:     make(map[int64]*domain.Order),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// =============================================================================
// Products
// =============================================================================

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok || rec.live == nil {
		return nil, domain.ErrProductNotFound
	}
	p := cloneProduct(*rec.live)
	return &p, nil
}

func (s *Store) GetProductVersion(ctx context.Context, id int64, version int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	snap, ok := rec.versions[version]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := cloneProduct(snap)
	return &p, nil
}

func (s *Store) GetPublishedProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok || rec.live == nil || rec.live.PublishedVersion == 0 {
		return nil, domain.ErrProductNotFound
	}
	snap, ok := rec.versions[rec.live.PublishedVersion]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := cloneProduct(snap)
	p.PublishedVersion = rec.live.PublishedVersion
	p.PublishedAt = rec.live.PublishedAt
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	p.Version = 1
	live := cloneProduct(*p)
	s.products[p.ID] = &productRecord{
		live:     &live,
		versions: map[int]domain.Product{1: cloneProduct(*p)},
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[p.ID]
	if !ok || rec.live == nil {
		return domain.ErrProductNotFound
	}
	p.Version = rec.live.Version + 1
	p.PublishedVersion = rec.live.PublishedVersion
	p.PublishedAt = rec.live.PublishedAt
	live := cloneProduct(*p)
	rec.live = &live
	rec.versions[p.Version] = cloneProduct(*p)
	return nil
}

func (s *Store) PublishProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok || rec.live == nil {
		return nil, domain.ErrProductNotFound
	}
	rec.live.PublishedVersion = rec.live.Version
	rec.live.PublishedAt = time.Now()
	rec.versions[rec.live.Version] = cloneProduct(*rec.live)
	p := cloneProduct(*rec.live)
	return &p, nil
}

func (s *Store) UnpublishProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok || rec.live == nil {
		return domain.ErrProductNotFound
	}
	rec.live.PublishedVersion = 0
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[id]
	if !ok || rec.live == nil {
		return domain.ErrProductNotFound
	}
	rec.live = nil
	return nil
}

// =============================================================================
// Attributes and options
// =============================================================================

func (s *Store) GetAttribute(ctx context.Context, id int64) (*domain.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attributes[id]
	if !ok {
		return nil, domain.ErrAttributeNotFound
	}
	return &a, nil
}

func (s *Store) CreateAttribute(ctx context.Context, a *domain.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID()
	s.attributes[a.ID] = *a
	return nil
}

func (s *Store) AttachAttribute(ctx context.Context, productID, attributeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[productID]
	if !ok || rec.live == nil {
		return domain.ErrProductNotFound
	}
	if _, ok := s.attributes[attributeID]; !ok {
		return domain.ErrAttributeNotFound
	}
	if rec.live.HasAttribute(attributeID) {
		return nil
	}
	rec.live.AttributeIDs = append(rec.live.AttributeIDs, attributeID)
	rec.live.Version++
	rec.versions[rec.live.Version] = cloneProduct(*rec.live)
	return nil
}

func (s *Store) DetachAttribute(ctx context.Context, productID, attributeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[productID]
	if !ok || rec.live == nil {
		return domain.ErrProductNotFound
	}
	kept := rec.live.AttributeIDs[:0]
	for _, id := range rec.live.AttributeIDs {
		if id != attributeID {
			kept = append(kept, id)
		}
	}
	rec.live.AttributeIDs = kept
	rec.live.Version++
	rec.versions[rec.live.Version] = cloneProduct(*rec.live)
	return nil
}

func (s *Store) ProductAttributes(ctx context.Context, productID int64) ([]domain.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[productID]
	if !ok || rec.live == nil {
		return nil, domain.ErrProductNotFound
	}
	attrs := make([]domain.Attribute, 0, len(rec.live.AttributeIDs))
	for _, id := range rec.live.AttributeIDs {
		if a, ok := s.attributes[id]; ok {
			attrs = append(attrs, a)
		}
	}
	return attrs, nil
}

func (s *Store) ProductOptions(ctx context.Context, productID int64) ([]domain.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opts []domain.Option
	for _, o := range s.options {
		if o.ProductID == productID {
			opts = append(opts, o)
		}
	}
	return opts, nil
}

func (s *Store) DefaultOptions(ctx context.Context, attributeID int64) ([]domain.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opts []domain.Option
	for _, o := range s.options {
		if o.ProductID == 0 && o.AttributeID == attributeID {
			opts = append(opts, o)
		}
	}
	return opts, nil
}

func (s *Store) GetOption(ctx context.Context, id int64) (*domain.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.options[id]
	if !ok {
		return nil, domain.ErrOptionNotFound
	}
	return &o, nil
}

func (s *Store) CreateOption(ctx context.Context, o *domain.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID()
	s.options[o.ID] = *o
	return nil
}

// =============================================================================
// Variations
// =============================================================================

func (s *Store) GetVariation(ctx context.Context, id int64) (*domain.Variation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.variations[id]
	if !ok || rec.live == nil {
		return nil, domain.ErrVariationNotFound
	}
	v := cloneVariation(*rec.live)
	return &v, nil
}

func (s *Store) GetVariationVersion(ctx context.Context, id int64, version int) (*domain.Variation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.variations[id]
	if !ok {
		return nil, domain.ErrVariationNotFound
	}
	snap, ok := rec.versions[version]
	if !ok {
		return nil, domain.ErrVariationNotFound
	}
	v := cloneVariation(snap)
	return &v, nil
}

func (s *Store) LatestVariation(ctx context.Context, id int64) (*domain.Variation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.variations[id]
	if !ok || rec.latest == 0 {
		return nil, domain.ErrVariationNotFound
	}
	v := cloneVariation(rec.versions[rec.latest])
	return &v, nil
}

func (s *Store) ProductVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vars []domain.Variation
	for _, rec := range s.variations {
		if rec.live != nil && rec.live.ProductID == productID {
			vars = append(vars, cloneVariation(*rec.live))
		}
	}
	return vars, nil
}

func (s *Store) CreateVariation(ctx context.Context, v *domain.Variation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = s.nextID()
	v.Version = 1
	live := cloneVariation(*v)
	s.variations[v.ID] = &variationRecord{
		live:     &live,
		versions: map[int]domain.Variation{1: cloneVariation(*v)},
		latest:   1,
	}
	return nil
}

func (s *Store) UpdateVariation(ctx context.Context, v *domain.Variation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.variations[v.ID]
	if !ok || rec.live == nil {
		return domain.ErrVariationNotFound
	}
	v.Version = rec.latest + 1
	live := cloneVariation(*v)
	rec.live = &live
	rec.versions[v.Version] = cloneVariation(*v)
	rec.latest = v.Version
	return nil
}

func (s *Store) DeleteVariation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.variations[id]
	if !ok || rec.live == nil {
		return domain.ErrVariationNotFound
	}
	rec.live = nil
	return nil
}

// =============================================================================
// Stock ledger
// =============================================================================

func (s *Store) StockLevel(ctx context.Context, ref domain.PurchasableRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, ok := s.stock[ref]
	if !ok {
		return domain.UnlimitedStock, nil
	}
	return level, nil
}

func (s *Store) SetStockLevel(ctx context.Context, ref domain.PurchasableRef, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stock[ref] = level
	return nil
}

// AdjustStock applies delta under the store lock so concurrent adds from
// different shoppers cannot lose updates.
func (s *Store) AdjustStock(ctx context.Context, ref domain.PurchasableRef, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, ok := s.stock[ref]
	if !ok || level == domain.UnlimitedStock {
		return nil
	}
	level += delta
	if level < 0 {
		level = 0
	}
	s.stock[ref] = level
	return nil
}

// =============================================================================
// Copy helpers
// =============================================================================

func cloneProduct(p domain.Product) domain.Product {
	p.AttributeIDs = append([]int64(nil), p.AttributeIDs...)
	return p
}

func cloneVariation(v domain.Variation) domain.Variation {
	v.OptionIDs = append([]int64(nil), v.OptionIDs...)
	return v
}
