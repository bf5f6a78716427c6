package extract

// Selectors holds every CSS selector, XPath expression and locale label the
// parsers depend on. A markup change on the site should only touch this file
// or the matching config keys.
type Selectors struct {
	// Overview page.
	CategoryEntry string `mapstructure:"category_entry" yaml:"category_entry"`
	CategoryLink  string `mapstructure:"category_link"  yaml:"category_link"`
	CategoryCount string `mapstructure:"category_count" yaml:"category_count"`
	FilterParam   string `mapstructure:"filter_param"   yaml:"filter_param"`

	// Listing page.
	ProductCard   string `mapstructure:"product_card"    yaml:"product_card"`
	CardTitle     string `mapstructure:"card_title"      yaml:"card_title"`
	CardPrice     string `mapstructure:"card_price"      yaml:"card_price"`
	CardUnitPrice string `mapstructure:"card_unit_price" yaml:"card_unit_price"`
	CardLabels    string `mapstructure:"card_labels"     yaml:"card_labels"` // XPath, relative to the card
	NextPage      string `mapstructure:"next_page"       yaml:"next_page"`

	// Detail page.
	DetailTitle  string `mapstructure:"detail_title"  yaml:"detail_title"`
	DetailLabels string `mapstructure:"detail_labels" yaml:"detail_labels"` // XPath

	Labels Labels `mapstructure:"labels" yaml:"labels"`
}

// Labels are the Norwegian label texts that introduce each attribute value.
// Matching ignores case, surrounding whitespace and a trailing colon.
type Labels struct {
	SKU              string `mapstructure:"sku"               yaml:"sku"`
	ContainerSize    string `mapstructure:"container_size"    yaml:"container_size"`
	Price            string `mapstructure:"price"             yaml:"price"`
	PricePerLiter    string `mapstructure:"price_per_liter"   yaml:"price_per_liter"`
	ProductType      string `mapstructure:"product_type"      yaml:"product_type"`
	ProductSelection string `mapstructure:"product_selection" yaml:"product_selection"`
	ShopCategory     string `mapstructure:"shop_category"     yaml:"shop_category"`
	Color            string `mapstructure:"color"             yaml:"color"`
	Aroma            string `mapstructure:"aroma"             yaml:"aroma"`
	Taste            string `mapstructure:"taste"             yaml:"taste"`
	FoodPairings     string `mapstructure:"food_pairings"     yaml:"food_pairings"`
	CountryRegion    string `mapstructure:"country_region"    yaml:"country_region"`
	Ingredients      string `mapstructure:"ingredients"       yaml:"ingredients"`
	Alcohol          string `mapstructure:"alcohol"           yaml:"alcohol"`
	Sugar            string `mapstructure:"sugar"             yaml:"sugar"`
	Acid             string `mapstructure:"acid"              yaml:"acid"`
	Storable         string `mapstructure:"storable"          yaml:"storable"`
	Manufacturer     string `mapstructure:"manufacturer"      yaml:"manufacturer"`
	Wholesaler       string `mapstructure:"wholesaler"        yaml:"wholesaler"`
	Distributor      string `mapstructure:"distributor"       yaml:"distributor"`
	ContainerType    string `mapstructure:"container_type"    yaml:"container_type"`
}

// DefaultSelectors describes the markup of www.vinmonopolet.no.
func DefaultSelectors() Selectors {
	return Selectors{
		CategoryEntry: "#categoryNav ul.categories > li",
		CategoryLink:  "a",
		CategoryCount: ".count",
		FilterParam:   "filterIds",

		ProductCard:   "#productList .product",
		CardTitle:     "h3 a",
		CardPrice:     ".price",
		CardUnitPrice: ".unitPrice",
		CardLabels:    ".//dl[contains(@class,'productData')]/dt",
		NextPage:      ".pagination a[rel='next']",

		DetailTitle:  "h1.productTitle",
		DetailLabels: "//div[contains(@class,'productData')]//dt",

		Labels: Labels{
			SKU:              "Varenummer",
			ContainerSize:    "Flaskestørrelse",
			Price:            "Pris",
			PricePerLiter:    "Literpris",
			ProductType:      "Varetype",
			ProductSelection: "Produktutvalg",
			ShopCategory:     "Butikkategori",
			Color:            "Farge",
			Aroma:            "Lukt",
			Taste:            "Smak",
			FoodPairings:     "Passer til",
			CountryRegion:    "Land/region",
			Ingredients:      "Råstoff",
			Alcohol:          "Alkohol",
			Sugar:            "Sukker",
			Acid:             "Syre",
			Storable:         "Lagringsgrad",
			Manufacturer:     "Produsent",
			Wholesaler:       "Grossist",
			Distributor:      "Distributør",
			ContainerType:    "Emballasjetype",
		},
	}
}
