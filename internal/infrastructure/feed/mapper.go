package feed

import (
	"crypto/md5" //nolint:gosec // content-addressed id, not a security boundary
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/farofertas/backend/internal/domain"
)

// Column synonyms per canonical field, most preferred first. The same feed is
// published with inconsistent header names across providers.
var (
	urlColumns      = []string{"product_short link", "product_short_link", "product_link", "product_url", "url", "link"}
	titleColumns    = []string{"title", "Title", "product_name"}
	priceColumns    = []string{"sale_price", "price", "SalePrice", "Price"}
	ratingColumns   = []string{"item_rating", "shop_rating"}
	soldColumns     = []string{"historical_sold", "sold", "Sold", "like"}
	imageColumns    = []string{"image_link", "image_link_3", "image", "ImageUrl"}
	categoryColumns = []string{"global_category3", "global_category2", "global_category1", "Category", "category"}
	idColumns       = []string{"itemid", "item_id"}
)

const (
	fallbackIDPrefix = "shp_"
	fallbackIDLen    = 10
)

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// MapRow converts a raw feed row into a canonical Product. It returns false
// when the row has no usable url or title.
func MapRow(row domain.RawRow) (*domain.Product, bool) {
	url := pick(row, urlColumns)
	title := pick(row, titleColumns)
	if url == "" || title == "" {
		return nil, false
	}

	id := pick(row, idColumns)
	if id == "" {
		id = FallbackID(url)
	}

	return &domain.Product{
		ID:        id,
		Title:     title,
		Price:     ParseNumber(pick(row, priceColumns)),
		Currency:  domain.CurrencyBRL,
		URL:       url,
		Image:     optional(pick(row, imageColumns)),
		Category:  optional(pick(row, categoryColumns)),
		Store:     domain.StoreShopee,
		Available: true,
		Rating:    ParseNumber(pick(row, ratingColumns)),
		Sold:      ParseNumber(pick(row, soldColumns)),
	}, true
}

// FallbackID derives a stable short id from the product url
func FallbackID(url string) string {
	sum := md5.Sum([]byte(url))
	return fallbackIDPrefix + hex.EncodeToString(sum[:])[:fallbackIDLen]
}

// ParseNumber extracts a non-negative number from locale-formatted text such as
// "1.299,90", "99,90", "R$ 45.5" or "4.8/5". Anything unparsable yields 0.
func ParseNumber(raw string) float64 {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	match := numberPattern.FindString(s)
	if match == "" {
		return 0
	}

	d, err := decimal.NewFromString(match)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// pick returns the first non-empty trimmed value among the given columns
func pick(row domain.RawRow, columns []string) string {
	for _, col := range columns {
		if v := strings.TrimSpace(row[col]); v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
