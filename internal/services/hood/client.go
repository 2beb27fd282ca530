package hood

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hoodsync/internal/catalog"
	"hoodsync/internal/logger"
	"hoodsync/internal/observability"
	"hoodsync/internal/syncerr"
)

const maxLoggedBody = 2048

type ClientConfig struct {
	Endpoint    string
	APIVersion  string
	Credentials Credentials
	HTTPClient  *http.Client
	Metrics     *observability.Metrics
}

// Client talks to the Hood XML API. Every call is a single POST without
// retries.
type Client struct {
	endpoint    string
	transformer *Transformer
	httpClient  *http.Client
	metrics     *observability.Metrics
	logger      *logger.Logger
}

func NewClient(cfg ClientConfig, logger *logger.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	version := cfg.APIVersion
	if version == "" {
		version = "2.0"
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		transformer: NewTransformer(cfg.Credentials, version),
		httpClient:  httpClient,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// Transformer exposes the request builder bound to the client's credentials.
func (c *Client) Transformer() *Transformer {
	return c.transformer
}

// Encode renders a request as an XML document with declaration.
func Encode(req *Request) ([]byte, error) {
	body, err := xml.MarshalIndent(req, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", req.Function, err)
	}
	return append([]byte(xml.Header), body...), nil
}

// ItemExists asks itemDetail for an article. A reply without the success
// marker means the listing does not exist.
func (c *Client) ItemExists(ctx context.Context, articleID string) (bool, error) {
	resp, err := c.do(ctx, c.transformer.DetailRequest(articleID))
	if err != nil {
		return false, err
	}
	exists := resp.OK()
	c.observe(FunctionItemDetail, nil)
	return exists, nil
}

// ListItems fetches every listing once and returns article id -> item name.
func (c *Client) ListItems(ctx context.Context) (map[string]string, error) {
	resp, err := c.call(ctx, c.transformer.ListRequest())
	if err != nil {
		return nil, err
	}

	listing := make(map[string]string, len(resp.Items))
	for _, it := range resp.Items {
		id := strings.TrimSpace(it.ArticleID)
		if id == "" {
			id = strings.TrimSpace(it.ItemID)
		}
		if id == "" {
			continue
		}
		listing[id] = strings.TrimSpace(it.ItemName)
	}
	return listing, nil
}

// Dispatch sends the product as itemInsert or itemUpdate.
func (c *Client) Dispatch(ctx context.Context, p *catalog.Product, action Action) (*Response, error) {
	req, err := c.transformer.BuildItemRequest(p, action)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, req)
}

func (c *Client) Insert(ctx context.Context, p *catalog.Product) (*Response, error) {
	return c.Dispatch(ctx, p, ActionInsert)
}

func (c *Client) Update(ctx context.Context, p *catalog.Product) (*Response, error) {
	return c.Dispatch(ctx, p, ActionUpdate)
}

// call posts a request and turns an error marker in the reply into a
// *syncerr.RemoteAPIError.
func (c *Client) call(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Failed() {
		err := &syncerr.RemoteAPIError{Function: req.Function, Message: resp.ErrorText()}
		c.observe(req.Function, err)
		return resp, err
	}
	c.observe(req.Function, nil)
	return resp, nil
}

// do posts a request and parses the reply. Transport failures, non-2xx
// statuses and undecodable bodies are returned as *syncerr.RemoteAPIError.
func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	payload, err := Encode(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")

	c.logger.Debug("Hood request %s (%d bytes)", req.Function, len(payload))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		remoteErr := &syncerr.RemoteAPIError{Function: req.Function, Message: fmt.Sprintf("failed to make request: %v", err)}
		c.observe(req.Function, remoteErr)
		return nil, remoteErr
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		remoteErr := &syncerr.RemoteAPIError{Function: req.Function, StatusCode: httpResp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
		c.observe(req.Function, remoteErr)
		return nil, remoteErr
	}

	c.logger.Debug("Hood response %s status=%d body=%s", req.Function, httpResp.StatusCode, truncate(body))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		remoteErr := &syncerr.RemoteAPIError{Function: req.Function, StatusCode: httpResp.StatusCode, Message: truncate(body)}
		c.observe(req.Function, remoteErr)
		return nil, remoteErr
	}

	resp, err := ParseResponse(body)
	if err != nil {
		remoteErr := &syncerr.RemoteAPIError{Function: req.Function, StatusCode: httpResp.StatusCode, Message: err.Error()}
		c.observe(req.Function, remoteErr)
		return nil, remoteErr
	}
	return resp, nil
}

func (c *Client) observe(function string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.metrics.ObserveRemoteCall(function, result)
}

func truncate(body []byte) string {
	r := []rune(strings.TrimSpace(string(body)))
	if len(r) > maxLoggedBody {
		return string(r[:maxLoggedBody]) + "..."
	}
	return string(r)
}
