package hood

import (
	"fmt"

	"hoodsync/internal/catalog"
)

// Action selects between creating and replacing a listing.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
)

// Function maps the action to the Hood API function.
func (a Action) Function() string {
	if a == ActionUpdate {
		return FunctionItemUpdate
	}
	return FunctionItemInsert
}

const (
	itemModeClassic = "classic"
	conditionNew    = "new"
)

var payOptions = []string{"wireTransfer", "payPal", "invoice", "sofort"}

// Foreign shipping rates are fixed; the domestic rate comes from the feed.
var foreignShipMethods = []ShipMethod{
	{Name: "DHLPacket_eu", Value: "9.95"},
	{Name: "DHLPacket_at", Value: "9.95"},
	{Name: "DHLPacket_ch", Value: "14.95"},
}

type Transformer struct {
	creds   Credentials
	version string
}

func NewTransformer(creds Credentials, version string) *Transformer {
	return &Transformer{creds: creds, version: version}
}

// Envelope builds the authenticated <api> wrapper for a function.
func (t *Transformer) Envelope(function string) *Request {
	return &Request{
		Type:        "public",
		Version:     t.version,
		User:        t.creds.AccountName,
		Password:    t.creds.PasswordHash,
		Function:    function,
		AccountName: t.creds.AccountName,
		AccountPass: t.creds.PasswordHash,
	}
}

// TransformProduct converts a normalized product into a Hood item.
func (t *Transformer) TransformProduct(p *catalog.Product) Item {
	categoryID := p.CategoryCode
	if categoryID == "" {
		categoryID = catalog.DefaultCategoryCode
	}
	shippingTime := p.ShippingTime
	if shippingTime == "" {
		shippingTime = catalog.DefaultShippingTime
	}
	shipMethods := make([]ShipMethod, 0, len(foreignShipMethods)+1)
	shipMethods = append(shipMethods, ShipMethod{Name: "DHLPacket_nat", Value: p.ShippingCost.StringFixed(2)})
	shipMethods = append(shipMethods, foreignShipMethods...)

	pictures := p.Images
	if len(pictures) > catalog.MaxImages {
		pictures = pictures[:catalog.MaxImages]
	}

	return Item{
		ItemMode:     itemModeClassic,
		CategoryID:   categoryID,
		ItemName:     CDATA{Text: p.Name},
		Quantity:     p.Stock,
		Condition:    conditionNew,
		Description:  CDATA{Text: p.Description},
		Price:        p.Price.StringFixed(2),
		EAN:          p.EAN,
		Manufacturer: p.Brand,
		ProductURL:   p.ProductURL,
		ShippingTime: shippingTime,
		ArticleID:    p.ArticleID,
		PayOptions:   append([]string(nil), payOptions...),
		ShipMethods:  shipMethods,
		Pictures:     Pictures(append([]string(nil), pictures...)),
	}
}

// BuildItemRequest returns the complete itemInsert or itemUpdate request for
// a product.
func (t *Transformer) BuildItemRequest(p *catalog.Product, action Action) (*Request, error) {
	if p == nil {
		return nil, fmt.Errorf("nil product")
	}
	if action != ActionInsert && action != ActionUpdate {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	req := t.Envelope(action.Function())
	req.Items = &ItemList{Items: []Item{t.TransformProduct(p)}}
	return req, nil
}

// DetailRequest asks for a single listing by article id.
func (t *Transformer) DetailRequest(articleID string) *Request {
	req := t.Envelope(FunctionItemDetail)
	req.ArticleID = articleID
	return req
}

// ListRequest asks for every listing of the account.
func (t *Transformer) ListRequest() *Request {
	return t.Envelope(FunctionItemList)
}
