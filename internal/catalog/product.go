// Package catalog turns raw feed rows into validated products ready to be
// listed on Hood.
package catalog

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	MinDescriptionLength = 200
	MaxImages            = 10
	DefaultStock         = 1
	MaxStock             = math.MaxInt32
	DefaultShippingTime  = "Sofort verfügbar, Lieferzeit: 1-3 Tage"
)

var DefaultShippingCost = decimal.RequireFromString("4.95")

// Product is the normalized form of a feed row.
type Product struct {
	ArticleID    string
	Name         string
	Price        decimal.Decimal
	Stock        int
	Description  string
	Images       []string
	Category     string
	CategoryCode string
	ShippingCost decimal.Decimal
	ShippingTime string
	EAN          string
	Brand        string
	ProductURL   string
}
