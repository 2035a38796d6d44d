package fedresurs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/adapters/driven/transport"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/params"
)

const input = `<Request>
  <first_name>Ivan</first_name>
  <last_name>Petrov</last_name>
  <birthdate>1980-05-17</birthdate>
</Request>`

// registry fakes the search and card endpoints.
type registry struct {
	search       string
	searchStatus int
	cards        map[string]string // guid -> card body; missing guids answer 500
}

func (r *registry) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Ivan Petrov 1980-05-17", req.Header.Get("searchString"))
		assert.Equal(t, "null", req.Header.Get("isActiveLegalCase"))
		assert.Equal(t, "15", req.Header.Get("limit"))
		assert.Equal(t, "0", req.Header.Get("offset"))
		assert.True(t, strings.HasSuffix(req.Header.Get("Referer"), "/search"))
		cookie, err := req.Cookie("name")
		if assert.NoError(t, err) {
			assert.Equal(t, "debtorsearch", cookie.Value)
		}

		status := r.searchStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(r.search))
	})
	mux.HandleFunc("/card/", func(w http.ResponseWriter, req *http.Request) {
		guid := strings.TrimPrefix(req.URL.Path, "/card/")
		body, ok := r.cards[guid]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	return mux
}

func card(birthdate string) string {
	return fmt.Sprintf(`{"info":{"birthdateBankruptcy":%q}}`, birthdate)
}

func run(t *testing.T, r *registry, rawInput string) domain.Result {
	t.Helper()
	server := httptest.NewServer(r.handler(t))
	defer server.Close()

	tr, err := transport.New(transport.Config{})
	require.NoError(t, err)
	inv, err := New(params.New(map[string]string{
		"url":      server.URL + "/search",
		"card_url": server.URL + "/card/",
	}), tr)
	require.NoError(t, err)
	return inv.Invoke(context.Background(), rawInput, nil)
}

const threeHits = `{"pageData":[{"guid":"a"},{"guid":"b"},{"guid":"c"}]}`

func TestInvoke_CountsMatches(t *testing.T) {
	res := run(t, &registry{
		search: threeHits,
		cards: map[string]string{
			"a": card("1980-05-17T00:00:00"),
			"b": card("1975-01-01T00:00:00"),
			"c": card("1980-05-17T12:30:00"),
		},
	}, input)

	require.Equal(t, domain.KindCompleted, res.Kind, "failure: %v", res.Failure)
	assert.False(t, res.Empty)
	assert.Equal(t, "Result", res.Body.Name)
	assert.Equal(t, "2", res.Body.ChildText("result"))
	assert.Equal(t, "3", res.Body.ChildText("cards_total"))
	assert.Equal(t, "3", res.Body.ChildText("cards_answered"))
}

func TestInvoke_PartialCardFailure(t *testing.T) {
	res := run(t, &registry{
		search: threeHits,
		cards: map[string]string{
			"a": "not json",
			"b": card("1980-05-17T00:00:00"),
			"c": `{"info":{"birthdateBankruptcy":"17.05.1980"}}`,
		},
	}, input)

	require.Equal(t, domain.KindCompleted, res.Kind, "failure: %v", res.Failure)
	assert.Equal(t, "1", res.Body.ChildText("result"))
	assert.Equal(t, "1", res.Body.ChildText("cards_answered"))
}

func TestInvoke_AllCardsFail(t *testing.T) {
	res := run(t, &registry{
		search: threeHits,
		cards: map[string]string{
			"a": "not json",
			"b": `{"info":{}}`,
			// c answers 500
		},
	}, input)

	require.Equal(t, domain.KindFailed, res.Kind)
	assert.Equal(t, domain.CategoryResponse, res.Failure.Category)
}

func TestInvoke_NoMatchesIsEmpty(t *testing.T) {
	res := run(t, &registry{
		search: `{"pageData":[{"guid":"a"}]}`,
		cards:  map[string]string{"a": card("1999-01-01T00:00:00")},
	}, input)

	require.Equal(t, domain.KindCompleted, res.Kind)
	assert.True(t, res.Empty)
	assert.Equal(t, "0", res.Body.ChildText("result"))
}

func TestInvoke_NoHits(t *testing.T) {
	t.Run("empty page fails as unanswered", func(t *testing.T) {
		res := run(t, &registry{search: `{"pageData":[]}`}, input)

		require.Equal(t, domain.KindFailed, res.Kind)
		assert.Equal(t, domain.CategoryResponse, res.Failure.Category)
	})

	t.Run("null page is not a list", func(t *testing.T) {
		res := run(t, &registry{search: `{"pageData":null}`}, input)

		require.Equal(t, domain.KindFailed, res.Kind)
		assert.Equal(t, domain.CategoryDataConvert, res.Failure.Category)
	})

	t.Run("not found reply has no page", func(t *testing.T) {
		res := run(t, &registry{search: `{"message":"Not found"}`, searchStatus: http.StatusNotFound}, input)

		require.Equal(t, domain.KindFailed, res.Kind)
		assert.Equal(t, domain.CategoryDataConvert, res.Failure.Category)
	})
}

func TestInvoke_SearchFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category domain.ErrorCategory
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"id":1},"message":"down"}`, domain.CategoryResponse},
		{"empty reply", http.StatusOK, "", domain.CategoryResponseEmpty},
		{"no page data", http.StatusOK, `{"total":0}`, domain.CategoryDataConvert},
		{"page data not list", http.StatusOK, `{"pageData":"x"}`, domain.CategoryDataConvert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, &registry{search: tt.body, searchStatus: tt.status}, input)
			require.Equal(t, domain.KindFailed, res.Kind)
			assert.Equal(t, tt.category, res.Failure.Category)
		})
	}
}

func TestInvoke_InvalidInput(t *testing.T) {
	inv, err := New(params.Parse("url=http://x/search;card_url=http://x/card"), driven.TransportFunc(
		func(context.Context, *driven.Request) (*driven.Response, error) {
			t.Fatal("no request expected")
			return nil, nil
		}))
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		category domain.ErrorCategory
	}{
		{"empty", "", domain.CategoryRequestParameterValidation},
		{"missing birthdate", "<Request><first_name>a</first_name><last_name>b</last_name></Request>", domain.CategoryRequestParameterValidation},
		{"blank name", "<Request><first_name/><last_name>b</last_name><birthdate>1980-01-01</birthdate></Request>", domain.CategoryRequestParameterValidation},
		{"bad date", "<Request><first_name>a</first_name><last_name>b</last_name><birthdate>01.01.1980</birthdate></Request>", domain.CategoryDataConvert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := inv.Invoke(context.Background(), tt.input, nil)
			require.Equal(t, domain.KindFailed, res.Kind)
			assert.Equal(t, tt.category, res.Failure.Category)
		})
	}
}
