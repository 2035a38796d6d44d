// Package crm implements an invoker for table lookups in a CRM.
//
// The Request document carries a filter array which is sent, JSON encoded,
// as the filter query parameter together with the configured apiKey and
// table id. The CRM answers with column names and rows:
//
//	{"status": 1, "data": {"names": ["a", "b"], "data": [["1", "2"]]}}
//
// The first row is zipped with the names into
//
//	<CRM><status>1</status><data><names><a>1</a><b>2</b></names></data></CRM>
package crm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/invokers"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/params"
)

// TypeID is the invoker type identifier.
const TypeID = "crm"

const (
	paramURL    = "url"
	paramPath   = "path"
	paramAPIKey = "apiKey"
	paramID     = "id"

	fieldFilter = "filter"
	resultRoot  = "CRM"
)

// Ensure Invoker implements the interface.
var _ driven.Invoker = (*Invoker)(nil)

// Invoker queries one CRM table.
type Invoker struct {
	endpoint  string
	apiKey    string
	tableID   string
	transport driven.Transport
}

// Metadata describes the invoker for the registry.
func Metadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          TypeID,
		Name:        "CRM",
		Description: "Look up a record in a CRM table by filter",
		InputFormat: domain.InputDocument,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramURL, Description: "CRM server address", Required: true},
			{Key: paramPath, Description: "Request path appended to url", Required: true},
			{Key: paramAPIKey, Description: "API key", Required: true, Secret: true},
			{Key: paramID, Description: "Table ID", Required: true},
		},
	}
}

// New creates a CRM invoker.
func New(p driven.Parameters, transport driven.Transport) (driven.Invoker, error) {
	if err := params.Require(p, paramURL, paramPath, paramAPIKey, paramID); err != nil {
		return nil, err
	}
	base, _ := p.String(paramURL)
	path, _ := p.String(paramPath)
	key, _ := p.String(paramAPIKey)
	id, _ := p.String(paramID)
	return &Invoker{
		endpoint:  base + path,
		apiKey:    key,
		tableID:   id,
		transport: transport,
	}, nil
}

// Type returns the invoker type identifier.
func (i *Invoker) Type() string {
	return TypeID
}

// Invoke runs the filter from the Request document.
func (i *Invoker) Invoke(ctx context.Context, rawInput string, _ *domain.Document) domain.Result {
	req, f := invokers.ParseRequest(rawInput)
	if f != nil {
		logger.Error("crm: invalid input", "error", f)
		return domain.Failed(f)
	}

	filter, ok := req.Get(fieldFilter)
	if !ok || filter == nil {
		return failure.Validation("missing required field filter").Build()
	}
	// A single condition arrives as an object; the CRM expects a list.
	if _, isList := filter.([]any); !isList {
		filter = []any{filter}
	}

	encoded, err := convert.EncodeJSON(filter)
	if err != nil {
		return failure.New(domain.CategoryDataConvert).
			Raw("encoding filter: " + err.Error()).
			Cause(err).
			Build()
	}

	query := url.Values{}
	query.Set(fieldFilter, string(encoded))
	query.Set(paramAPIKey, i.apiKey)
	query.Set(paramID, i.tableID)

	logger.Info("crm: sending request", "table", i.tableID)
	resp, err := i.transport.Execute(ctx, &driven.Request{
		Method: http.MethodGet,
		URL:    i.endpoint,
		Query:  query,
	})
	if err != nil {
		logger.Error("crm: request failed", "error", err)
		return failure.FromTransport(err).Build()
	}
	logger.Debug("crm: reply", "status", resp.StatusCode, "body", resp.Body)

	verdict := failure.Classify(resp)
	if !verdict.Success {
		logger.Error("crm: upstream error", "status", resp.StatusCode, "category", verdict.Category)
		return verdict.Failure("crm request failed")
	}
	if verdict.Empty {
		return invokers.Complete(verdict.Payload, resultRoot, true)
	}

	zipped, f := zip(verdict.Payload)
	if f != nil {
		logger.Error("crm: unexpected reply", "error", f, "body", resp.Body)
		return domain.Failed(f)
	}
	return invokers.Complete(zipped, resultRoot, false)
}

// zip pairs the column names with the first row.
func zip(payload any) (*convert.Object, *domain.Failure) {
	root, ok := payload.(*convert.Object)
	if !ok {
		return nil, malformed("reply is not an object")
	}
	status, ok := root.Get("status")
	if !ok {
		return nil, malformed("reply has no status")
	}
	dataVal, _ := root.Get("data")
	data, ok := dataVal.(*convert.Object)
	if !ok {
		return nil, malformed("reply has no data object")
	}

	namesVal, ok := data.Get("names")
	if !ok {
		return nil, malformed("data has no names")
	}
	rowsVal, ok := data.Get("data")
	if !ok {
		return nil, malformed("data has no data")
	}
	names, ok := namesVal.([]any)
	if !ok {
		return nil, malformed("names is not a list")
	}
	rows, ok := rowsVal.([]any)
	if !ok {
		return nil, malformed("data is not a list")
	}

	if len(rows) == 0 {
		return nil, failure.New(domain.CategoryResponseEmpty).
			Raw("reply carries column names but no rows").
			Err()
	}
	row, ok := rows[0].([]any)
	if !ok {
		return nil, malformed("row is not a list")
	}
	if len(row) != len(names) {
		return nil, malformed("row and names differ in length")
	}

	columns := convert.NewObject()
	for idx, n := range names {
		name, ok := n.(string)
		if !ok || !convert.ValidName(name) {
			return nil, malformed("invalid column name")
		}
		columns.Set(name, row[idx])
	}

	return convert.NewObject().
		Set("status", status).
		Set("data", convert.NewObject().Set("names", columns)), nil
}

func malformed(msg string) *domain.Failure {
	return failure.New(domain.CategoryDataConvert).Raw(msg).Err()
}
