// Package catalog defines the typed records extracted from the store's pages.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// Category is one entry of the overview page's category navigation.
type Category struct {
	Title    string `json:"title"`
	Count    int    `json:"count"`
	FilterID int    `json:"filterId"`
}

// ID returns the category identity used by storage backends.
func (c Category) ID() string {
	return fmt.Sprintf("category:%d:%s", c.FilterID, c.Title)
}

// ToItem converts the category into an export record.
func (c Category) ToItem() *types.Item {
	item := types.NewItem(c.ID(), "category")
	item.Set("title", c.Title)
	item.Set("count", c.Count)
	item.Set("filterId", c.FilterID)
	return item
}

// ProductSummary is one product card on a listing page.
type ProductSummary struct {
	Title         string          `json:"title"`
	SKU           int             `json:"sku"`
	ContainerSize string          `json:"containerSize"`
	Price         decimal.Decimal `json:"price"`
	PricePerLiter decimal.Decimal `json:"pricePerLiter"`
}

// ID returns the product identity used by storage backends.
func (p ProductSummary) ID() string {
	return "product:" + strconv.Itoa(p.SKU)
}

// ToItem converts the summary into an export record.
func (p ProductSummary) ToItem() *types.Item {
	item := types.NewItem(p.ID(), "product")
	p.fill(item)
	return item
}

func (p ProductSummary) fill(item *types.Item) {
	item.Set("title", p.Title)
	item.Set("sku", p.SKU)
	item.Set("containerSize", p.ContainerSize)
	item.Set("price", p.Price.InexactFloat64())
	item.Set("pricePerLiter", p.PricePerLiter.InexactFloat64())
}

// ProductDetail is the full attribute set of a single product page.
// Optional attributes are empty when the page does not list them.
type ProductDetail struct {
	ProductSummary

	ProductType      string          `json:"productType"`
	ProductSelection string          `json:"productSelection"`
	ShopCategory     string          `json:"shopCategory"`
	Color            string          `json:"color"`
	Aroma            string          `json:"aroma"`
	Taste            string          `json:"taste"`
	FoodPairings     string          `json:"foodPairings"`
	CountryRegion    string          `json:"countryRegion"`
	Ingredients      string          `json:"ingredients"`
	Alcohol          decimal.Decimal `json:"alcohol"`
	Sugar            string          `json:"sugar"`
	Acid             string          `json:"acid"`
	Storable         string          `json:"storable"`
	Manufacturer     string          `json:"manufacturer"`
	Wholesaler       string          `json:"wholesaler"`
	Distributor      string          `json:"distributor"`
	ContainerType    string          `json:"containerType"`
}

// ToItem converts the detail into an export record sharing the summary's identity.
func (d *ProductDetail) ToItem() *types.Item {
	item := types.NewItem(d.ID(), "product_detail")
	d.ProductSummary.fill(item)
	item.Set("productType", d.ProductType)
	item.Set("productSelection", d.ProductSelection)
	item.Set("shopCategory", d.ShopCategory)
	item.Set("color", d.Color)
	item.Set("aroma", d.Aroma)
	item.Set("taste", d.Taste)
	item.Set("foodPairings", d.FoodPairings)
	item.Set("countryRegion", d.CountryRegion)
	item.Set("ingredients", d.Ingredients)
	item.Set("alcohol", d.Alcohol.InexactFloat64())
	item.Set("sugar", d.Sugar)
	item.Set("acid", d.Acid)
	item.Set("storable", d.Storable)
	item.Set("manufacturer", d.Manufacturer)
	item.Set("wholesaler", d.Wholesaler)
	item.Set("distributor", d.Distributor)
	item.Set("containerType", d.ContainerType)
	return item
}

// FilterSet maps a filter id to the value to search for.
type FilterSet map[int]string

// IDs returns the filter ids in ascending order.
func (f FilterSet) IDs() []int {
	ids := make([]int, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CategoryItems converts categories into export records.
func CategoryItems(categories []Category) []*types.Item {
	items := make([]*types.Item, len(categories))
	for i, c := range categories {
		items[i] = c.ToItem()
	}
	return items
}

// ProductItems converts product summaries into export records.
func ProductItems(products []ProductSummary) []*types.Item {
	items := make([]*types.Item, len(products))
	for i, p := range products {
		items[i] = p.ToItem()
	}
	return items
}

// ParseFilterSet builds a FilterSet from "id=value" pairs.
func ParseFilterSet(pairs []string) (FilterSet, error) {
	filters := make(FilterSet, len(pairs))
	for _, pair := range pairs {
		idStr, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("filter %q: expected id=value", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil || id < 0 {
			return nil, fmt.Errorf("filter %q: id must be a non-negative integer", pair)
		}
		if _, dup := filters[id]; dup {
			return nil, fmt.Errorf("filter %q: id %d given twice", pair, id)
		}
		filters[id] = strings.TrimSpace(value)
	}
	return filters, nil
}

// DetailItems converts a product detail into a one-record export batch.
func DetailItems(d *ProductDetail) []*types.Item {
	return []*types.Item{d.ToItem()}
}
