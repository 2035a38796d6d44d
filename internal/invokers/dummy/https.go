package dummy

import (
	"context"
	"net/http"
	"strconv"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/params"
)

// HTTPSTypeID is the transport test invoker type identifier.
const HTTPSTypeID = "dummy-https"

const paramURL = "url"

// Ensure HTTPSInvoker implements the interface.
var _ driven.Invoker = (*HTTPSInvoker)(nil)

// HTTPSInvoker checks that an endpoint is reachable through the configured
// TLS profile.
type HTTPSInvoker struct {
	url           string
	emptyResponse bool
	transport     driven.Transport
}

// HTTPSMetadata describes the transport test invoker for the registry.
func HTTPSMetadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          HTTPSTypeID,
		Name:        "Dummy HTTPS",
		Description: "POST to an endpoint and return an empty Dummy document",
		InputFormat: domain.InputAny,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramURL, Description: "Endpoint to POST to", Required: true},
			{Key: paramEmptyResponse, Description: "Flag the result as empty", Default: "false"},
		},
	}
}

// NewHTTPS creates the transport test invoker.
func NewHTTPS(p driven.Parameters, transport driven.Transport) (driven.Invoker, error) {
	if err := params.Require(p, paramURL); err != nil {
		return nil, err
	}
	url, _ := p.String(paramURL)
	empty, _, err := p.OptionalBoolean(paramEmptyResponse)
	if err != nil {
		return nil, err
	}
	return &HTTPSInvoker{url: url, emptyResponse: empty, transport: transport}, nil
}

// Type returns the invoker type identifier.
func (i *HTTPSInvoker) Type() string {
	return HTTPSTypeID
}

// Invoke POSTs to the endpoint. The reply body is ignored.
func (i *HTTPSInvoker) Invoke(ctx context.Context, _ string, _ *domain.Document) domain.Result {
	resp, err := i.transport.Execute(ctx, &driven.Request{Method: http.MethodPost, URL: i.url})
	if err != nil {
		logger.Error("dummy-https: request failed", "error", err)
		return failure.FromTransport(err).Build()
	}

	code := strconv.Itoa(resp.StatusCode)
	switch {
	case resp.StatusCode >= 500:
		return failure.New(domain.CategoryResponse).Raw("server returned " + code).Source(code, "").Build()
	case resp.StatusCode >= 400:
		return failure.New(domain.CategoryRequestBuild).Raw("server returned " + code).Source(code, "").Build()
	}

	return domain.Completed(domain.NewElement(resultRoot), i.emptyResponse)
}
