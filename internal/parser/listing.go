package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/extract"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// ParseListingPage extracts every product card of one search result page and
// reports whether the page links to a next page.
//
// Any card with a missing or malformed field fails the whole page.
func ParseListingPage(doc *goquery.Document, sel extract.Selectors) ([]catalog.ProductSummary, bool, error) {
	hasNext := doc.Find(sel.NextPage).Length() > 0

	cards := doc.Find(sel.ProductCard)
	if cards.Length() == 0 {
		if hasNext {
			return nil, false, types.ErrEmptyPage
		}
		return nil, false, nil
	}

	products := make([]catalog.ProductSummary, 0, cards.Length())
	var parseErr error
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		p, err := parseCard(card, sel)
		if err != nil {
			parseErr = fmt.Errorf("product card %d: %w", i+1, err)
			return false
		}
		products = append(products, p)
		return true
	})
	if parseErr != nil {
		return nil, false, parseErr
	}
	return products, hasNext, nil
}

func parseCard(card *goquery.Selection, sel extract.Selectors) (catalog.ProductSummary, error) {
	var p catalog.ProductSummary

	p.Title = extract.Text(card.Find(sel.CardTitle))
	if p.Title == "" {
		return p, types.MissingField("title")
	}

	labels, err := extract.LabelValues(card.Nodes[0], sel.CardLabels)
	if err != nil {
		return p, err
	}
	if p.SKU, err = labels.Int("sku", sel.Labels.SKU); err != nil {
		return p, err
	}
	if p.ContainerSize, err = labels.Required("containerSize", sel.Labels.ContainerSize); err != nil {
		return p, err
	}
	if p.Price, err = extract.Decimal("price", extract.Text(card.Find(sel.CardPrice))); err != nil {
		return p, err
	}
	if p.PricePerLiter, err = extract.Decimal("pricePerLiter", extract.Text(card.Find(sel.CardUnitPrice))); err != nil {
		return p, err
	}
	return p, nil
}
