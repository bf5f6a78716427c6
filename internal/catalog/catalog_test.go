package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterSet(t *testing.T) {
	filters, err := ParseFilterSet([]string{"25=Alkoholfritt", " 3 = Frankrike "})
	require.NoError(t, err)
	assert.Equal(t, FilterSet{25: "Alkoholfritt", 3: "Frankrike"}, filters)
	assert.Equal(t, []int{3, 25}, filters.IDs())
}

func TestParseFilterSetErrors(t *testing.T) {
	for _, pairs := range [][]string{
		{"Alkoholfritt"},
		{"25="},
		{"x=Rødvin"},
		{"-1=Rødvin"},
		{"25=Rødvin", "25=Hvitvin"},
	} {
		_, err := ParseFilterSet(pairs)
		assert.Error(t, err, "pairs %v", pairs)
	}
}

func TestCategoryToItem(t *testing.T) {
	item := Category{Title: "Rødvin", Count: 6033, FilterID: 25}.ToItem()

	assert.Equal(t, "category:25:Rødvin", item.ID)
	assert.Equal(t, "category", item.Kind)
	assert.Equal(t, "Rødvin", item.GetString("title"))
	assert.Equal(t, 6033, item.Fields["count"])
	assert.Equal(t, 25, item.Fields["filterId"])
}

func TestItemToMapMetadata(t *testing.T) {
	m := Category{Title: "Rødvin", Count: 6033, FilterID: 25}.ToItem().ToMap()

	var meta []string
	for k := range m {
		if strings.HasPrefix(k, "_") {
			meta = append(meta, k)
		}
	}
	assert.ElementsMatch(t, []string{"_id", "_kind", "_timestamp"}, meta)
	assert.Equal(t, "category:25:Rødvin", m["_id"])
}

func TestProductItems(t *testing.T) {
	products := []ProductSummary{{
		Title:         "3 Horses Apple Malt Beverage",
		SKU:           109802,
		ContainerSize: "33 cl",
		Price:         decimal.RequireFromString("19.9"),
		PricePerLiter: decimal.RequireFromString("60.3"),
	}}

	items := ProductItems(products)
	require.Len(t, items, 1)
	assert.Equal(t, "product:109802", items[0].ID)
	assert.Equal(t, 19.9, items[0].Fields["price"])
	assert.Equal(t, 60.3, items[0].Fields["pricePerLiter"])

	flat := items[0].ToFlatMap()
	assert.Equal(t, "19.9", flat["price"])
	assert.Equal(t, "109802", flat["sku"])
}

func TestProductDetailToItem(t *testing.T) {
	d := &ProductDetail{
		ProductSummary: ProductSummary{SKU: 9351702, Title: "Porter"},
		Alcohol:        decimal.RequireFromString("10.01"),
		Color:          "Mørk",
	}

	item := d.ToItem()
	assert.Equal(t, "product:9351702", item.ID)
	assert.Equal(t, "product_detail", item.Kind)
	assert.Equal(t, 10.01, item.Fields["alcohol"])
	assert.Equal(t, "Mørk", item.GetString("color"))
	assert.Equal(t, "", item.GetString("taste"))
}
