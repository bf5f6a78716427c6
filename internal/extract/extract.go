// Package extract maps markup subtrees to typed field values.
//
// Numbers follow the Norwegian convention: comma is the decimal separator and
// spaces (including non-breaking ones) or dots group thousands. A value that
// cannot be read as a non-negative number is an error, never a zero.
package extract

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/IshaanNene/vinmonopolet/internal/types"
)

var (
	numberToken   = regexp.MustCompile(`-?\d[\d\s\x{00A0}\x{202F}.]*(?:,\d+)?`)
	groupedByDots = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	anyDigit      = regexp.MustCompile(`\d`)
)

// Clean trims s and collapses every run of whitespace (including NBSP) to one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text returns the cleaned text of the first node in sel.
func Text(sel *goquery.Selection) string {
	return Clean(sel.First().Text())
}

// Decimal reads the single number embedded in raw, e.g. "Kr. 1 234,50 pr. liter".
func Decimal(field, raw string) (decimal.Decimal, error) {
	text := Clean(raw)
	if text == "" {
		return decimal.Zero, types.MissingField(field)
	}

	loc := numberToken.FindStringIndex(text)
	if loc == nil {
		return decimal.Zero, types.MalformedField(field, text, nil)
	}
	token := strings.TrimRight(text[loc[0]:loc[1]], " .\u00a0\u202f")
	if anyDigit.MatchString(text[:loc[0]]) || anyDigit.MatchString(text[loc[0]+len(token):]) {
		return decimal.Zero, types.MalformedField(field, text, fmt.Errorf("more than one number"))
	}

	d, err := decimal.NewFromString(canonicalNumber(token))
	if err != nil {
		return decimal.Zero, types.MalformedField(field, text, err)
	}
	if d.IsNegative() {
		return decimal.Zero, types.MalformedField(field, text, fmt.Errorf("negative value"))
	}
	return d, nil
}

// Int reads a non-negative whole number embedded in raw, e.g. "(6 033)".
func Int(field, raw string) (int, error) {
	d, err := Decimal(field, raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, types.MalformedField(field, Clean(raw), fmt.Errorf("not a whole number"))
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt)) {
		return 0, types.MalformedField(field, Clean(raw), fmt.Errorf("out of range"))
	}
	return int(d.IntPart()), nil
}

// canonicalNumber rewrites a Norwegian-formatted number with a '.' decimal point
// and no grouping.
func canonicalNumber(token string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t', '\n':
			return -1
		}
		return r
	}, token)

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case groupedByDots.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// QueryParamInt reads an integer query parameter from a link. Comma-separated
// parameter values yield their first element.
func QueryParamInt(field, href, param string) (int, error) {
	if strings.TrimSpace(href) == "" {
		return 0, types.MissingField(field)
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, types.MalformedField(field, href, err)
	}
	raw := u.Query().Get(param)
	if raw == "" {
		return 0, types.MissingField(field)
	}
	first, _, _ := strings.Cut(raw, ",")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || n < 0 {
		return 0, types.MalformedField(field, raw, err)
	}
	return n, nil
}

// NormalizeLabel makes label text comparable: cleaned, trailing colon removed, lower-cased.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(Clean(s), ":"))
	return strings.ToLower(s)
}

// LabelSet holds label → value text pairs found in one subtree.
type LabelSet map[string]string

// LabelValues evaluates labelXPath against root and pairs every matched label
// node with the text of its next element sibling (a dt with its dd). The first
// occurrence of a label wins.
func LabelValues(root *html.Node, labelXPath string) (LabelSet, error) {
	nodes, err := htmlquery.QueryAll(root, labelXPath)
	if err != nil {
		return nil, fmt.Errorf("label xpath %q: %w", labelXPath, err)
	}

	set := make(LabelSet, len(nodes))
	for _, n := range nodes {
		label := NormalizeLabel(htmlquery.InnerText(n))
		if label == "" {
			continue
		}
		if _, seen := set[label]; seen {
			continue
		}
		if value := nextElement(n); value != nil {
			set[label] = Clean(htmlquery.InnerText(value))
		}
	}
	return set, nil
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Text returns the value for label, or "" when the page does not list it.
func (l LabelSet) Text(label string) string {
	return l[NormalizeLabel(label)]
}

// Required returns the value for label or a missing-field error.
func (l LabelSet) Required(field, label string) (string, error) {
	v := l.Text(label)
	if v == "" {
		return "", types.MissingField(field)
	}
	return v, nil
}

// Decimal parses the value for label. An absent optional label yields zero.
func (l LabelSet) Decimal(field, label string, required bool) (decimal.Decimal, error) {
	v := l.Text(label)
	if v == "" {
		if required {
			return decimal.Zero, types.MissingField(field)
		}
		return decimal.Zero, nil
	}
	return Decimal(field, v)
}

// Int parses the value for label, which must be present.
func (l LabelSet) Int(field, label string) (int, error) {
	v, err := l.Required(field, label)
	if err != nil {
		return 0, err
	}
	return Int(field, v)
}
