package parser

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/extract"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// ParseProductDetail extracts the attribute panel of a product page.
// Title, sku, container size, price and price per liter are required; every
// other attribute is left empty when its label is absent. The page's sku must
// equal expectedSKU.
func ParseProductDetail(doc *goquery.Document, sel extract.Selectors, expectedSKU int) (*catalog.ProductDetail, error) {
	labels, err := extract.LabelValues(doc.Nodes[0], sel.DetailLabels)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, types.ErrNoProductData
	}

	l := sel.Labels
	d := &catalog.ProductDetail{}

	d.Title = extract.Text(doc.Find(sel.DetailTitle))
	if d.Title == "" {
		return nil, types.MissingField("title")
	}
	if d.SKU, err = labels.Int("sku", l.SKU); err != nil {
		return nil, err
	}
	if d.SKU != expectedSKU {
		return nil, &types.SKUMismatchError{Expected: expectedSKU, Got: d.SKU}
	}
	if d.ContainerSize, err = labels.Required("containerSize", l.ContainerSize); err != nil {
		return nil, err
	}
	if d.Price, err = labels.Decimal("price", l.Price, true); err != nil {
		return nil, err
	}
	if d.PricePerLiter, err = labels.Decimal("pricePerLiter", l.PricePerLiter, true); err != nil {
		return nil, err
	}
	if d.Alcohol, err = labels.Decimal("alcohol", l.Alcohol, false); err != nil {
		return nil, err
	}

	d.ProductType = labels.Text(l.ProductType)
	d.ProductSelection = labels.Text(l.ProductSelection)
	d.ShopCategory = labels.Text(l.ShopCategory)
	d.Color = labels.Text(l.Color)
	d.Aroma = labels.Text(l.Aroma)
	d.Taste = labels.Text(l.Taste)
	d.FoodPairings = labels.Text(l.FoodPairings)
	d.CountryRegion = labels.Text(l.CountryRegion)
	d.Ingredients = labels.Text(l.Ingredients)
	d.Sugar = labels.Text(l.Sugar)
	d.Acid = labels.Text(l.Acid)
	d.Storable = labels.Text(l.Storable)
	d.Manufacturer = labels.Text(l.Manufacturer)
	d.Wholesaler = labels.Text(l.Wholesaler)
	d.Distributor = labels.Text(l.Distributor)
	d.ContainerType = labels.Text(l.ContainerType)

	return d, nil
}
