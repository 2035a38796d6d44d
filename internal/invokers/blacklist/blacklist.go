// Package blacklist implements an invoker that checks a client's national ID
// against a partner blacklist service.
//
// The invoker POSTs the Request object as JSON and authenticates with the
// PARTNER-API-KEY header. A 404 reply whose message is "Not found" means the
// client is not listed and completes with an empty result.
package blacklist

import (
	"context"
	"net/http"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/invokers"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/params"
)

// TypeID is the invoker type identifier.
const TypeID = "blacklist"

const (
	paramURL        = "url"
	paramPartnerKey = "partner_key"

	fieldNationalID = "national_id"
	resultRoot      = "Result"
	partnerHeader   = "PARTNER-API-KEY"
)

// Ensure Invoker implements the interface.
var _ driven.Invoker = (*Invoker)(nil)

// Invoker checks national IDs against the blacklist service.
type Invoker struct {
	url        string
	partnerKey string
	transport  driven.Transport
}

// Metadata describes the invoker for the registry.
func Metadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          TypeID,
		Name:        "Blacklist",
		Description: "Check a client by national ID against a partner blacklist",
		InputFormat: domain.InputDocument,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramURL, Description: "Blacklist service endpoint", Required: true},
			{Key: paramPartnerKey, Description: "Partner API key", Required: true, Secret: true},
		},
	}
}

// New creates a blacklist invoker.
func New(p driven.Parameters, transport driven.Transport) (driven.Invoker, error) {
	if err := params.Require(p, paramURL, paramPartnerKey); err != nil {
		return nil, err
	}
	url, _ := p.String(paramURL)
	key, _ := p.String(paramPartnerKey)
	return &Invoker{url: url, partnerKey: key, transport: transport}, nil
}

// Type returns the invoker type identifier.
func (i *Invoker) Type() string {
	return TypeID
}

// Invoke looks up the national ID in the Request document.
// The blacklist has no deferred retry, so prior is ignored.
func (i *Invoker) Invoke(ctx context.Context, rawInput string, _ *domain.Document) domain.Result {
	req, f := invokers.ParseRequest(rawInput)
	if f != nil {
		logger.Error("blacklist: invalid input", "error", f)
		return domain.Failed(f)
	}
	if f := invokers.RequireFields(req, fieldNationalID); f != nil {
		logger.Error("blacklist: missing national_id", "fields", req.Keys())
		return domain.Failed(f)
	}

	body, err := convert.EncodeJSON(req)
	if err != nil {
		return failure.New(domain.CategoryDataConvert).
			Raw("encoding request: " + err.Error()).
			Cause(err).
			Build()
	}

	header := http.Header{}
	header.Set(partnerHeader, i.partnerKey)
	header.Set("Content-Type", "application/json")

	resp, err := i.transport.Execute(ctx, &driven.Request{
		Method: http.MethodPost,
		URL:    i.url,
		Header: header,
		Body:   body,
	})
	if err != nil {
		logger.Error("blacklist: request failed", "error", err)
		return failure.FromTransport(err).Build()
	}

	verdict := failure.Classify(resp)
	if !verdict.Success {
		logger.Error("blacklist: upstream error",
			"status", resp.StatusCode,
			"category", verdict.Category,
			"body", resp.Body)
		return verdict.Failure("blacklist request failed")
	}

	return invokers.Complete(verdict.Payload, resultRoot, verdict.Empty)
}
