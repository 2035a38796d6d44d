// Package surelead implements an invoker for the Surelead phone risk check.
//
// Input is a parameter string such as "phone_number=79101234567;k=v". The
// phone number is appended to the configured url and the remaining input
// parameters are sent as the query string.
package surelead

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/invokers"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/params"
)

// TypeID is the invoker type identifier.
const TypeID = "surelead"

const (
	paramURL   = "url"
	paramToken = "token"

	inputPhone = "phone_number"
	resultRoot = "SURELEAD"
	authHeader = "X-Auth-Token"
)

// phonePattern matches a Russian mobile number in international format.
var phonePattern = regexp.MustCompile(`^79[0-9]{9}$`)

// Ensure Invoker implements the interface.
var _ driven.Invoker = (*Invoker)(nil)

// Invoker queries Surelead by phone number.
type Invoker struct {
	baseURL   string
	token     string
	transport driven.Transport
}

// Metadata describes the invoker for the registry.
func Metadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          TypeID,
		Name:        "Surelead",
		Description: "Check a phone number with the Surelead risk service",
		InputFormat: domain.InputParams,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramURL, Description: "Check endpoint, the phone number is appended", Default: "https://surelead.tech/check/", Required: true},
			{Key: paramToken, Description: "X-Auth-Token value", Required: true, Secret: true},
		},
	}
}

// New creates a Surelead invoker.
func New(p driven.Parameters, transport driven.Transport) (driven.Invoker, error) {
	if err := params.Require(p, paramURL, paramToken); err != nil {
		return nil, err
	}
	base, _ := p.String(paramURL)
	token, _ := p.String(paramToken)
	return &Invoker{baseURL: base, token: token, transport: transport}, nil
}

// Type returns the invoker type identifier.
func (i *Invoker) Type() string {
	return TypeID
}

// Invoke checks the phone number found in rawInput.
func (i *Invoker) Invoke(ctx context.Context, rawInput string, _ *domain.Document) domain.Result {
	if strings.TrimSpace(rawInput) == "" {
		return failure.Validation("input is empty").Build()
	}

	input := params.Split(rawInput)
	phone := input[inputPhone]
	delete(input, inputPhone)

	if phone == "" {
		logger.Error("surelead: phone_number is required")
		return failure.Validation("phone_number is required").Build()
	}
	if !phonePattern.MatchString(phone) {
		logger.Error("surelead: phone number not in international format", "phone", phone)
		return failure.Validation("phone number is not in international format").Build()
	}

	query := url.Values{}
	for k, v := range input {
		query.Set(k, v)
	}
	header := http.Header{}
	header.Set(authHeader, i.token)

	logger.Info("surelead: checking phone")
	resp, err := i.transport.Execute(ctx, &driven.Request{
		Method: http.MethodGet,
		URL:    i.baseURL + phone,
		Header: header,
		Query:  query,
	})
	if err != nil {
		logger.Error("surelead: request failed", "error", err)
		return failure.FromTransport(err).Build()
	}
	logger.Debug("surelead: raw reply", "status", resp.StatusCode, "body", resp.Body)

	verdict := failure.Classify(resp)
	if !verdict.Success {
		logger.Error("surelead: upstream error", "status", resp.StatusCode, "category", verdict.Category)
		return verdict.Failure("surelead request failed")
	}

	return invokers.Complete(verdict.Payload, resultRoot, verdict.Empty)
}
