package transport

import (
	"context"
	"io"
	"net/http"
	"sync"

	"happy-jasmine/internal/access"
	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func passthrough(next http.Handler) http.Handler { return next }

type fakeProducts struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*domain.Product
	lastPage  domain.Page
	lastCatID *uuid.UUID
	lastPatch domain.ProductPatch
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[uuid.UUID]*domain.Product{}}
}

func (f *fakeProducts) List(ctx context.Context, page domain.Page) result.Result[[]*domain.Product] {
	return f.ListByCategory(ctx, nil, page)
}

func (f *fakeProducts) ListByCategory(ctx context.Context, categoryID *uuid.UUID, page domain.Page) result.Result[[]*domain.Product] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage, f.lastCatID = page, categoryID
	out := []*domain.Product{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return result.OkWithCount(out, len(out))
}

func (f *fakeProducts) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Product] {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return result.Fail[*domain.Product](repository.ErrProductNotFound)
	}
	return result.Ok(p)
}

func (f *fakeProducts) GetDetail(ctx context.Context, id uuid.UUID) result.Result[domain.ProductDetail] {
	p, ok := f.Get(ctx, id).Data()
	if !ok {
		return result.Fail[domain.ProductDetail](repository.ErrProductNotFound)
	}
	return result.Ok(domain.NewProductDetail(*p, nil))
}

func (f *fakeProducts) Create(ctx context.Context, product *domain.Product) result.Result[*domain.Product] {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.New()
	f.items[product.ID] = product
	return result.Ok(product)
}

func (f *fakeProducts) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) result.Result[*domain.Product] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	p, ok := f.items[id]
	if !ok {
		return result.Fail[*domain.Product](repository.ErrProductNotFound)
	}
	if patch.Title.Set {
		p.Title = patch.Title.Value
	}
	if patch.CategoryID.Set {
		p.CategoryID = patch.CategoryID.Value
	}
	return result.Ok(p)
}

func (f *fakeProducts) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return result.Fail[result.Empty](repository.ErrProductNotFound)
	}
	delete(f.items, id)
	return result.Ok(result.Empty{})
}

type fakeCategories struct {
	lastFilter domain.CategoryFilter
	created    *domain.Category
}

func (f *fakeCategories) List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) result.Result[[]*domain.Category] {
	f.lastFilter = filter
	return result.OkWithCount([]*domain.Category{}, 0)
}

func (f *fakeCategories) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Category] {
	return result.Fail[*domain.Category](repository.ErrCategoryNotFound)
}

func (f *fakeCategories) Create(ctx context.Context, category *domain.Category) result.Result[*domain.Category] {
	f.created = category
	return result.Ok(category)
}

func (f *fakeCategories) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) result.Result[*domain.Category] {
	return result.Fail[*domain.Category](repository.ErrCategoryNotFound)
}

func (f *fakeCategories) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	return result.Ok(result.Empty{})
}

type fakeLocations struct {
	lastFilter domain.LocationFilter
	created    *domain.Location
}

func (f *fakeLocations) List(ctx context.Context, filter domain.LocationFilter, page domain.Page) result.Result[[]*domain.Location] {
	f.lastFilter = filter
	return result.OkWithCount([]*domain.Location{}, 0)
}

func (f *fakeLocations) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Location] {
	return result.Fail[*domain.Location](repository.ErrLocationNotFound)
}

func (f *fakeLocations) Create(ctx context.Context, location *domain.Location) result.Result[*domain.Location] {
	f.created = location
	return result.Ok(location)
}

func (f *fakeLocations) Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) result.Result[*domain.Location] {
	return result.Fail[*domain.Location](repository.ErrLocationNotFound)
}

func (f *fakeLocations) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	return result.Ok(result.Empty{})
}

type fakeVisits struct {
	mu        sync.Mutex
	counts    map[string]int64
	listeners map[string][]func(domain.VisitCount)
	unsubbed  chan string
	getErr    error
}

func newFakeVisits() *fakeVisits {
	return &fakeVisits{
		counts:    map[string]int64{},
		listeners: map[string][]func(domain.VisitCount){},
		unsubbed:  make(chan string, 4),
	}
}

func (f *fakeVisits) Increment(ctx context.Context, pageType string) result.Result[int64] {
	if !domain.ValidPageType(pageType) {
		return result.Fail[int64](access.ErrInvalidInput)
	}
	f.mu.Lock()
	f.counts[pageType]++
	n := f.counts[pageType]
	listeners := append([]func(domain.VisitCount){}, f.listeners[pageType]...)
	f.mu.Unlock()

	for _, l := range listeners {
		l(domain.VisitCount{PageType: pageType, VisitCount: n})
	}
	return result.Ok(n)
}

func (f *fakeVisits) Get(ctx context.Context, pageType string) result.Result[int64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return result.Fail[int64](f.getErr)
	}
	return result.Ok(f.counts[pageType])
}

func (f *fakeVisits) List(ctx context.Context) result.Result[[]*domain.VisitCount] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.VisitCount{}
	for k, v := range f.counts {
		out = append(out, &domain.VisitCount{PageType: k, VisitCount: v})
	}
	return result.OkWithCount(out, len(out))
}

func (f *fakeVisits) SubscribeToChanges(pageType string, onChange func(domain.VisitCount)) func() {
	f.mu.Lock()
	f.listeners[pageType] = append(f.listeners[pageType], onChange)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, pageType)
		f.mu.Unlock()
		f.unsubbed <- pageType
	}
}

func (f *fakeVisits) subscribers(pageType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners[pageType])
}

type fakeUploader struct {
	calls  int
	folder string
	file   access.File
	body   []byte
}

func (f *fakeUploader) Upload(ctx context.Context, file access.File, folder string) result.Result[string] {
	f.calls++
	f.folder, f.file = folder, file
	f.body, _ = io.ReadAll(file.Body)
	return result.Ok("https://cdn.test/assets/" + folder + "/" + file.Name)
}

func newRouter(register func(r chi.Router)) chi.Router {
	r := chi.NewRouter()
	register(r)
	return r
}
