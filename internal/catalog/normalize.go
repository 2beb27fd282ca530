package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hoodsync/internal/feed"
	"hoodsync/internal/syncerr"
)

// Feed column names. The identifier and description have legacy aliases.
var (
	idColumns          = []string{"mpnr", "aid"}
	descriptionColumns = []string{"description", "desc"}
	categoryColumns    = []string{"shop_cat", "category"}
)

// Normalize validates a feed row and produces a Product. A row without an
// article id, a name or a positive price yields a *syncerr.ValidationError.
func Normalize(row feed.Row) (*Product, error) {
	articleID := Clean(row.First(idColumns...))
	if articleID == "" {
		return nil, &syncerr.ValidationError{Field: "articleId", Reason: "is missing"}
	}

	name := Clean(row.Value("name"))
	if name == "" {
		return nil, &syncerr.ValidationError{Field: "name", Reason: "is missing"}
	}

	rawPrice := Clean(row.Value("price"))
	if rawPrice == "" {
		return nil, &syncerr.ValidationError{Field: "price", Reason: "is missing"}
	}
	price, err := ParseAmount(rawPrice)
	if err != nil {
		return nil, &syncerr.ValidationError{Field: "price", Reason: err.Error()}
	}
	price = price.Round(2)
	if !price.IsPositive() {
		return nil, &syncerr.ValidationError{Field: "price", Reason: fmt.Sprintf("must be positive, got %s", price.String())}
	}

	shipping := DefaultShippingCost
	if raw := Clean(row.Value("dlv_cost")); raw != "" {
		if v, err := ParseAmount(raw); err == nil && !v.IsNegative() {
			shipping = v
		}
	}

	shippingTime := Clean(row.Value("dlv_time"))
	if shippingTime == "" {
		shippingTime = DefaultShippingTime
	}

	brand := Clean(row.Value("brand"))
	category := Clean(row.First(categoryColumns...))

	return &Product{
		ArticleID:    articleID,
		Name:         name,
		Price:        price,
		Stock:        ParseStock(row.Value("stock")),
		Description:  ExpandDescription(Clean(row.First(descriptionColumns...)), name, brand),
		Images:       ExtractImages(row),
		Category:     category,
		CategoryCode: MapCategory(category),
		ShippingCost: shipping.Round(2),
		ShippingTime: shippingTime,
		EAN:          Clean(row.Value("ean")),
		Brand:        brand,
		ProductURL:   Clean(row.Value("link")),
	}, nil
}

// Clean trims whitespace and one pair of literal quote characters that some
// shop exports leave around values.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// ParseAmount parses a money amount written with a comma or dot decimal
// separator, optionally with thousands separators and a euro sign.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = Clean(s)
	s = strings.NewReplacer("€", "", "EUR", "", "\u00a0", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// ParseStock reads a stock level. Blank or unparseable values mean one unit
// is available; values clamp to [0, MaxStock].
func ParseStock(s string) int {
	s = Clean(s)
	if s == "" {
		return DefaultStock
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultStock
	}
	if f < 0 {
		return 0
	}
	if f > MaxStock {
		return MaxStock
	}
	return int(f)
}
