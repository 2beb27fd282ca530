package syncer

import (
	"context"

	"hoodsync/internal/catalog"
	"hoodsync/internal/logger"
	"hoodsync/internal/services/hood"
)

// DryRunDispatcher builds the exact request a real run would send and logs it
// instead of posting it.
type DryRunDispatcher struct {
	transformer *hood.Transformer
	logger      *logger.Logger
}

func NewDryRunDispatcher(transformer *hood.Transformer, logger *logger.Logger) *DryRunDispatcher {
	return &DryRunDispatcher{transformer: transformer, logger: logger}
}

func (d *DryRunDispatcher) Dispatch(ctx context.Context, p *catalog.Product, action hood.Action) (*hood.Response, error) {
	req, err := d.transformer.BuildItemRequest(p, action)
	if err != nil {
		return nil, err
	}
	// keep the password digest out of the logs
	req.Password = "***"
	req.AccountPass = "***"

	doc, err := hood.Encode(req)
	if err != nil {
		return nil, err
	}
	d.logger.Info("[dry-run] %s %s\n%s", req.Function, p.ArticleID, doc)
	return &hood.Response{Status: hood.StatusOK}, nil
}
