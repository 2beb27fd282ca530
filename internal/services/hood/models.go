package hood

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Hood API function names.
const (
	FunctionItemInsert = "itemInsert"
	FunctionItemUpdate = "itemUpdate"
	FunctionItemDetail = "itemDetail"
	FunctionItemList   = "itemList"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request is the <api> envelope every call is wrapped in.
type Request struct {
	XMLName     xml.Name  `xml:"api"`
	Type        string    `xml:"type,attr"`
	Version     string    `xml:"version,attr"`
	User        string    `xml:"user,attr"`
	Password    string    `xml:"password,attr"`
	Function    string    `xml:"function"`
	AccountName string    `xml:"accountName"`
	AccountPass string    `xml:"accountPass"`
	ArticleID   string    `xml:"articleID,omitempty"`
	Items       *ItemList `xml:"items,omitempty"`
}

type ItemList struct {
	Items []Item `xml:"item"`
}

// CDATA wraps free text in a literal section. encoding/xml splits any "]]>"
// inside the text so the section cannot be closed early.
type CDATA struct {
	Text string `xml:",cdata"`
}

// Item is one listing as sent to itemInsert and itemUpdate.
type Item struct {
	ItemMode     string       `xml:"itemMode"`
	CategoryID   string       `xml:"categoryID"`
	ItemName     CDATA        `xml:"itemName"`
	Quantity     int          `xml:"quantity"`
	Condition    string       `xml:"condition"`
	Description  CDATA        `xml:"description"`
	Price        string       `xml:"price"`
	EAN          string       `xml:"ean"`
	Manufacturer string       `xml:"manufacturer"`
	ProductURL   string       `xml:"productURL"`
	ShippingTime string       `xml:"shippingTime"`
	ArticleID    string       `xml:"articleID"`
	PayOptions   []string     `xml:"payOptions>option"`
	ShipMethods  []ShipMethod `xml:"shipmethods>shipmethod"`
	Pictures     Pictures     `xml:"pictures,omitempty"`
}

type ShipMethod struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// Pictures encodes as <picture1>..</picture1><picture2>..</picture2>.
type Pictures []string

func (p Pictures) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for i, url := range p {
		el := xml.StartElement{Name: xml.Name{Local: fmt.Sprintf("picture%d", i+1)}}
		if err := e.EncodeElement(url, el); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (p *Pictures) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !strings.HasPrefix(t.Name.Local, "picture") {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var url string
			if err := d.DecodeElement(&url, &t); err != nil {
				return err
			}
			*p = append(*p, url)
		case xml.EndElement:
			return nil
		}
	}
}

// Response is the parsed body of any Hood reply. The root element name is
// not checked.
type Response struct {
	Status  string       `xml:"status"`
	Error   string       `xml:"error"`
	Message string       `xml:"message"`
	ItemID  string       `xml:"itemID"`
	Items   []ListedItem `xml:"items>item"`
}

// ListedItem is an entry of an itemList reply.
type ListedItem struct {
	ItemID    string `xml:"itemID"`
	ArticleID string `xml:"articleID"`
	ItemName  string `xml:"itemName"`
}

// OK reports a success marker without an error marker.
func (r *Response) OK() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusOK) && strings.TrimSpace(r.Error) == ""
}

// Failed reports an explicit error marker.
func (r *Response) Failed() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusError) || strings.TrimSpace(r.Error) != ""
}

// ErrorText returns the remote error message, or a generic one.
func (r *Response) ErrorText() string {
	if msg := strings.TrimSpace(r.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return msg
	}
	return "unknown error"
}

// ParseResponse decodes a Hood reply body. Status, error and message markers
// are picked up at any depth, and the body may hold several top-level
// elements. A nested "error" status takes precedence over an earlier "ok".
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := scanMarkers(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var structured Response
	if err := xml.Unmarshal(body, &structured); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	resp.ItemID = strings.TrimSpace(structured.ItemID)
	resp.Items = structured.Items
	return &resp, nil
}

func scanMarkers(body []byte, resp *Response) error {
	d := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "status", "error", "message":
		default:
			continue
		}

		var text string
		if err := d.DecodeElement(&text, &start); err != nil {
			return err
		}
		text = strings.TrimSpace(text)

		switch start.Name.Local {
		case "status":
			if resp.Status == "" || strings.EqualFold(text, StatusError) {
				resp.Status = text
			}
		case "error":
			if resp.Error == "" {
				resp.Error = text
			}
		case "message":
			if resp.Message == "" {
				resp.Message = text
			}
		}
	}
}
