package invokers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
)

// RequestRoot is the root element of document inputs.
const RequestRoot = "Request"

// ParseRequest converts a rendered Request document to its object form.
// Blank input is a validation failure. Input that does not parse, or whose
// root is not Request, is a DataConvertError.
func ParseRequest(rawInput string) (*convert.Object, *domain.Failure) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, failure.Validation("input is empty").Err()
	}

	doc, err := convert.ParseDocument(rawInput)
	if err != nil {
		logger.Debug("parsing request document", "error", err)
		return nil, failure.New(domain.CategoryDataConvert).
			Raw("building request data: " + err.Error()).
			Cause(err).
			Err()
	}
	if doc.Name != RequestRoot {
		return nil, failure.New(domain.CategoryDataConvert).
			Rawf("root element %q, want %q", doc.Name, RequestRoot).
			Err()
	}

	v, err := convert.ToObject(doc)
	if err != nil {
		return nil, failure.New(domain.CategoryDataConvert).
			Raw("building request data: " + err.Error()).
			Cause(err).
			Err()
	}

	switch obj := v.(type) {
	case *convert.Object:
		return obj, nil
	case nil:
		return convert.NewObject(), nil
	default:
		return nil, failure.New(domain.CategoryDataConvert).
			Raw("request element carries no fields").
			Err()
	}
}

// RequireFields returns a validation failure naming the first field that is
// missing or blank.
func RequireFields(req *convert.Object, fields ...string) *domain.Failure {
	for _, f := range fields {
		v, ok := req.Get(f)
		if !ok {
			return failure.Validation("missing required field " + f).Err()
		}
		if strings.TrimSpace(Text(v)) == "" {
			return failure.Validation("empty required field " + f).Err()
		}
	}
	return nil
}

// Text renders a scalar object value as text. Containers and nil render empty.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Complete converts payload to a Document rooted at root and returns it as a
// completed result. A payload that cannot be converted is a DataConvertError.
func Complete(payload any, root string, empty bool) domain.Result {
	doc, err := convert.ToDocument(payload, root)
	if err != nil {
		logger.Error("building response document", "root", root, "error", err)
		return failure.New(domain.CategoryDataConvert).
			Raw("building response: " + err.Error()).
			Describe("the upstream reply could not be converted").
			Cause(err).
			Build()
	}
	return domain.Completed(doc, empty)
}
