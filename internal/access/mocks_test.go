package access

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"

	"github.com/google/uuid"
)

var errBackend = errors.New("connection reset by peer")

type mockContentRepository struct {
	doc    domain.Document
	getErr error
}

func (m *mockContentRepository) Get(ctx context.Context) (domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.doc == nil {
		return nil, repository.ErrContentNotFound
	}
	return m.doc, nil
}

func (m *mockContentRepository) Upsert(ctx context.Context, doc domain.Document) error {
	m.doc = doc
	return nil
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	clock    time.Time
	fail     error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product), clock: time.Unix(1700000000, 0)}
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.clock = m.clock.Add(time.Second)
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if patch.Title.Set {
		p.Title = patch.Title.Value
	}
	if patch.Description.Set {
		p.Description = patch.Description.Value
	}
	if patch.HetPrice.Set {
		p.HetPrice = patch.HetPrice.Value
	}
	if patch.Thumbnail.Set {
		p.Thumbnail = patch.Thumbnail.Value
	}
	if patch.Images.Set {
		p.Images = patch.Images.Value
	}
	if patch.CategoryID.Set {
		p.CategoryID = patch.CategoryID.Value
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, 0, m.fail
	}
	var matched []*domain.Product
	for _, p := range m.products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, page), len(matched), nil
}

func window[T any](rows []T, page domain.Page) []T {
	page = domain.NormalizePage(page)
	out := []T{}
	for i := page.Offset(); i < len(rows) && i < page.Offset()+page.Limit(); i++ {
		out = append(out, rows[i])
	}
	return out
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	findErr    error
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	m.categories[c.ID] = &stored
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	if patch.Name.Set {
		c.Name = patch.Name.Value
	}
	if patch.IsActive.Set {
		c.IsActive = patch.IsActive.Value
	}
	if patch.DisplayOrder.Set {
		c.DisplayOrder = patch.DisplayOrder.Value
	}
	copied := *c
	return &copied, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) ([]*domain.Category, int, error) {
	var matched []*domain.Category
	for _, c := range m.categories {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		copied := *c
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DisplayOrder < matched[j].DisplayOrder })
	return window(matched, page), len(matched), nil
}

type mockLocationRepository struct {
	locations map[uuid.UUID]*domain.Location
}

func newMockLocationRepository() *mockLocationRepository {
	return &mockLocationRepository{locations: make(map[uuid.UUID]*domain.Location)}
}

func (m *mockLocationRepository) Create(ctx context.Context, l *domain.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	stored := *l
	m.locations[l.ID] = &stored
	return nil
}

func (m *mockLocationRepository) Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) (*domain.Location, error) {
	l, ok := m.locations[id]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}
	if patch.Name.Set {
		l.Name = patch.Name.Value
	}
	if patch.Category.Set {
		l.Category = patch.Category.Value
	}
	if patch.Latitude.Set {
		l.Latitude = patch.Latitude.Value
	}
	if patch.Longitude.Set {
		l.Longitude = patch.Longitude.Value
	}
	copied := *l
	return &copied, nil
}

func (m *mockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.locations[id]; !ok {
		return repository.ErrLocationNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	l, ok := m.locations[id]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *mockLocationRepository) List(ctx context.Context, filter domain.LocationFilter, page domain.Page) ([]*domain.Location, int, error) {
	var matched []*domain.Location
	for _, l := range m.locations {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		copied := *l
		matched = append(matched, &copied)
	}
	return window(matched, page), len(matched), nil
}

type mockVisitCountRepository struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMockVisitCountRepository() *mockVisitCountRepository {
	return &mockVisitCountRepository{counts: make(map[string]int64)}
}

func (m *mockVisitCountRepository) Increment(ctx context.Context, pageType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[pageType]++
	return m.counts[pageType], nil
}

func (m *mockVisitCountRepository) Get(ctx context.Context, pageType string) (*domain.VisitCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.VisitCount{PageType: pageType, VisitCount: m.counts[pageType]}, nil
}

func (m *mockVisitCountRepository) List(ctx context.Context) ([]*domain.VisitCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	visits := []*domain.VisitCount{}
	for pageType, count := range m.counts {
		visits = append(visits, &domain.VisitCount{PageType: pageType, VisitCount: count})
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].PageType < visits[j].PageType })
	return visits, nil
}

type mockBucket struct {
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newMockBucket() *mockBucket {
	return &mockBucket{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockBucket) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	if m.fail != nil {
		return m.fail
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.objects[path] = buf.Bytes()
	m.types[path] = contentType
	return nil
}

func (m *mockBucket) PublicURL(path string) string {
	return "https://cdn.test/assets/" + path
}
