package failure

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

// NotFoundMessage is the upstream message that turns a 404 into an empty
// success.
const NotFoundMessage = "Not found"

// Verdict is the outcome of classifying an upstream response.
type Verdict struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Success is true when the response should be converted and returned.
	Success bool

	// Empty is true for a successful "no matching record" answer.
	Empty bool

	// Category is set when Success is false.
	Category domain.ErrorCategory

	// Payload is the decoded JSON body, if it parsed.
	Payload any

	// Err is the decode error for a body that is not JSON.
	Err error
}

// Classify applies the status policy shared by all HTTP invokers.
//
//	empty body, any status        ResponseEmpty
//	body not JSON                 DataConvertError
//	200                           success
//	404 with message "Not found"  success, empty
//	other 404                     ResponseError
//	other 4xx                     RequestBuildError
//	5xx                           ResponseError
//	1xx, 201-399                  ResponseError
func Classify(resp *driven.Response) Verdict {
	v := Verdict{StatusCode: resp.StatusCode}

	if strings.TrimSpace(resp.Body) == "" {
		v.Category = domain.CategoryResponseEmpty
		return v
	}

	payload, err := convert.DecodeJSON([]byte(resp.Body))
	if err != nil {
		v.Category = domain.CategoryDataConvert
		v.Err = err
		return v
	}
	v.Payload = payload

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		v.Success = true
	case code == http.StatusNotFound:
		if msg, ok := payloadMessage(payload); ok && msg == NotFoundMessage {
			v.Success = true
			v.Empty = true
			return v
		}
		v.Category = domain.CategoryResponse
	case code >= 400 && code < 500:
		v.Category = domain.CategoryRequestBuild
	default:
		v.Category = domain.CategoryResponse
	}
	return v
}

// Builder starts a failure for an unsuccessful verdict with msg as the raw
// message. The source error is the upstream (error, message) pair when the
// payload carries both, else the status code.
func (v Verdict) Builder(msg string) *Builder {
	category := v.Category
	if category == "" {
		category = domain.CategoryInternal
	}
	b := New(category).Raw(msg)
	if v.Err != nil {
		b.Cause(v.Err)
	}

	if obj, ok := v.Payload.(*convert.Object); ok && obj.Has("error") && obj.Has("message") {
		errVal, _ := obj.Get("error")
		msgVal, _ := obj.Get("message")
		return b.Source(valueText(errVal), valueText(msgVal))
	}
	return b.Source(strconv.Itoa(v.StatusCode), "")
}

// Failure returns the Failed result for an unsuccessful verdict.
func (v Verdict) Failure(msg string) domain.Result {
	return v.Builder(msg).Build()
}

func payloadMessage(payload any) (string, bool) {
	obj, ok := payload.(*convert.Object)
	if !ok {
		return "", false
	}
	return obj.String("message")
}

func valueText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := convert.EncodeJSON(v)
	if err != nil {
		return ""
	}
	return string(data)
}
