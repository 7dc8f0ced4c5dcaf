// Package catalog remembers the selected customer and the category list
// across restarts. Categories have no TTL: the cache is authoritative until
// the agent asks for a refresh.
package catalog

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/kv"
	"github.com/diewo77/go-salesagent/internal/lookup"
	"github.com/diewo77/go-salesagent/internal/models"
)

// Persistent store keys.
const (
	SelectedCustomerKey = "selectedClient"
	CategoriesKey       = "cachedCategories"
)

// OffersCategory is the synthetic category listed first in the shop.
var OffersCategory = models.ProductCategory{Code: "0000", Name: "Ofertas", Slug: "ofertas"}

// CategorySource fetches the remote category list.
type CategorySource interface {
	FetchCategories(ctx context.Context) ([]models.RemoteCategory, error)
}

// ContextCache holds the selected customer and the category list.
type ContextCache struct {
	customer         *lookup.Lookup[models.SelectedCustomer]
	categories       *lookup.Lookup[[]models.ProductCategory]
	defaultPriceList string
	log              *zap.Logger
}

func NewContextCache(store kv.Store, source CategorySource, defaultPriceList string, log *zap.Logger) *ContextCache {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultPriceList == "" {
		defaultPriceList = "1"
	}
	fetch := func(ctx context.Context) ([]models.ProductCategory, error) {
		remote, err := source.FetchCategories(ctx)
		if err != nil {
			return nil, err
		}
		cats := BuildCategories(remote)
		log.Info("categories fetched", zap.Int("count", len(cats)))
		return cats, nil
	}
	return &ContextCache{
		customer:         lookup.New[models.SelectedCustomer](store, SelectedCustomerKey, nil, log),
		categories:       lookup.New(store, CategoriesKey, fetch, log),
		defaultPriceList: defaultPriceList,
		log:              log,
	}
}

// SaveSelectedCustomer persists c, replacing any previous customer.
func (c *ContextCache) SaveSelectedCustomer(ctx context.Context, cust models.SelectedCustomer) error {
	return c.customer.Put(ctx, cust)
}

// LoadSelectedCustomer returns the selected customer. A missing or corrupt
// record reports ok=false.
func (c *ContextCache) LoadSelectedCustomer(ctx context.Context) (models.SelectedCustomer, bool) {
	cust, ok := c.customer.Peek(ctx)
	if ok && strings.TrimSpace(cust.CardCode) == "" {
		return models.SelectedCustomer{}, false
	}
	return cust, ok
}

// ClearSelectedCustomer forgets the selected customer.
func (c *ContextCache) ClearSelectedCustomer(ctx context.Context) error {
	return c.customer.Invalidate(ctx)
}

// GetCategories returns the cached categories, fetching them when the cache
// is empty or forceRefresh is set. A failed refresh keeps the old list.
func (c *ContextCache) GetCategories(ctx context.Context, forceRefresh bool) ([]models.ProductCategory, error) {
	cats, err := c.categories.Get(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProductCategory, len(cats))
	copy(out, cats)
	return out, nil
}

// PriceList is the price list of the selected customer, or the default one.
func (c *ContextCache) PriceList(ctx context.Context) string {
	if cust, ok := c.LoadSelectedCustomer(ctx); ok && cust.PriceListNum != "" {
		return cust.PriceListNum
	}
	return c.defaultPriceList
}

// BuildCategories slugs the remote categories and puts Ofertas first.
// A remote category using the Ofertas code is dropped.
func BuildCategories(remote []models.RemoteCategory) []models.ProductCategory {
	out := make([]models.ProductCategory, 0, len(remote)+1)
	out = append(out, OffersCategory)
	for _, r := range remote {
		if r.Code == OffersCategory.Code {
			continue
		}
		out = append(out, models.ProductCategory{Code: r.Code, Name: r.Name, Slug: slug.Make(r.Name)})
	}
	return out
}

// TabTitle capitalizes the first letter of a category name and lowercases the rest.
func TabTitle(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}
