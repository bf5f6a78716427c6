package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/extract"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// ParseCategories extracts the category navigation of the overview page in
// document order. A page without any entry yields types.ErrNoCategories.
func ParseCategories(doc *goquery.Document, sel extract.Selectors) ([]catalog.Category, error) {
	entries := doc.Find(sel.CategoryEntry)
	if entries.Length() == 0 {
		return nil, types.ErrNoCategories
	}

	categories := make([]catalog.Category, 0, entries.Length())
	var parseErr error
	entries.EachWithBreak(func(i int, s *goquery.Selection) bool {
		c, err := parseCategory(s, sel)
		if err != nil {
			parseErr = fmt.Errorf("category %d: %w", i+1, err)
			return false
		}
		categories = append(categories, c)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return categories, nil
}

func parseCategory(s *goquery.Selection, sel extract.Selectors) (catalog.Category, error) {
	link := s.Find(sel.CategoryLink).First()
	if link.Length() == 0 {
		return catalog.Category{}, types.MissingField("title")
	}

	// The count badge may sit inside the link; keep it out of the title.
	titleSel := link.Clone()
	titleSel.Find(sel.CategoryCount).Remove()
	title := extract.Text(titleSel)
	if title == "" {
		return catalog.Category{}, types.MissingField("title")
	}

	count, err := extract.Int("count", extract.Text(s.Find(sel.CategoryCount)))
	if err != nil {
		return catalog.Category{}, err
	}

	href, _ := link.Attr("href")
	filterID, err := extract.QueryParamInt("filterId", href, sel.FilterParam)
	if err != nil {
		return catalog.Category{}, err
	}

	return catalog.Category{Title: title, Count: count, FilterID: filterID}, nil
}
