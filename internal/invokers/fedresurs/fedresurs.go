// Package fedresurs implements an invoker that searches the federal
// bankruptcy register for a debtor and counts the cards whose birthdate
// matches the requested one.
//
// One search call is followed by one card call per hit. A card that cannot
// be fetched or read is logged and skipped; the invocation fails only when
// no card could be read at all.
package fedresurs

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/invokers"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/params"
)

// TypeID is the invoker type identifier.
const TypeID = "fedresurs"

// MaxConcurrentCards bounds the card requests in flight for one invocation.
const MaxConcurrentCards = 4

const (
	paramURL     = "url"
	paramCardURL = "card_url"

	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldBirthdate = "birthdate"

	resultRoot = "Result"

	birthdateLayout = "2006-01-02"
	cardDateLayout  = "2006-01-02T15:04:05"

	searchLimit  = "15"
	searchOffset = "0"
)

// Ensure Invoker implements the interface.
var _ driven.Invoker = (*Invoker)(nil)

// Invoker searches debtors and compares birthdates.
type Invoker struct {
	searchURL string
	cardURL   string
	transport driven.Transport
}

// Metadata describes the invoker for the registry.
func Metadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          TypeID,
		Name:        "Fedresurs",
		Description: "Count bankruptcy register debtors matching name and birthdate",
		InputFormat: domain.InputDocument,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramURL, Description: "Debtor search endpoint", Required: true},
			{Key: paramCardURL, Description: "Debtor card endpoint, the card guid is appended", Required: true},
		},
	}
}

// New creates a fedresurs invoker.
func New(p driven.Parameters, transport driven.Transport) (driven.Invoker, error) {
	if err := params.Require(p, paramURL, paramCardURL); err != nil {
		return nil, err
	}
	search, _ := p.String(paramURL)
	card, _ := p.String(paramCardURL)
	return &Invoker{
		searchURL: search,
		cardURL:   strings.TrimRight(card, "/"),
		transport: transport,
	}, nil
}

// Type returns the invoker type identifier.
func (i *Invoker) Type() string {
	return TypeID
}

// Invoke searches for the debtor named in the Request document.
func (i *Invoker) Invoke(ctx context.Context, rawInput string, _ *domain.Document) domain.Result {
	req, f := invokers.ParseRequest(rawInput)
	if f != nil {
		logger.Error("fedresurs: invalid input", "error", f)
		return domain.Failed(f)
	}
	if f := invokers.RequireFields(req, fieldBirthdate, fieldFirstName, fieldLastName); f != nil {
		logger.Error("fedresurs: missing search fields", "error", f)
		return domain.Failed(f)
	}

	first, _ := req.Get(fieldFirstName)
	last, _ := req.Get(fieldLastName)
	birthVal, _ := req.Get(fieldBirthdate)
	birthText := invokers.Text(birthVal)

	birthdate, err := time.Parse(birthdateLayout, birthText)
	if err != nil {
		logger.Error("fedresurs: invalid birthdate", "birthdate", birthText)
		return failure.New(domain.CategoryDataConvert).
			Rawf("birthdate %q is not %s", birthText, birthdateLayout).
			Describe("invalid date format").
			Cause(err).
			Build()
	}

	search := strings.Join([]string{invokers.Text(first), invokers.Text(last), birthText}, " ")
	guids, res, done := i.search(ctx, search)
	if done {
		return res
	}

	dates := make([]time.Time, len(guids))
	read := make([]bool, len(guids))
	var g errgroup.Group
	g.SetLimit(MaxConcurrentCards)
	for n, guid := range guids {
		g.Go(func() error {
			dates[n], read[n] = i.card(ctx, guid)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return failure.FromTransport(err).Build()
	}

	matches, answered := 0, 0
	for n, ok := range read {
		if !ok {
			continue
		}
		answered++
		if dates[n].Equal(birthdate) {
			matches++
		}
	}

	if answered == 0 {
		logger.Error("fedresurs: no card could be read", "cards", len(guids))
		return failure.New(domain.CategoryResponse).
			Rawf("none of %d cards could be read", len(guids)).
			Describe("no debtor card could be retrieved").
			Build()
	}
	return summary(matches, len(guids), answered)
}

// search runs the debtor search and returns the card guids.
// When done is true, res is the final result of the invocation.
func (i *Invoker) search(ctx context.Context, searchString string) (guids []string, res domain.Result, done bool) {
	header := http.Header{}
	header.Set("searchString", searchString)
	header.Set("isActiveLegalCase", "null")
	header.Set("limit", searchLimit)
	header.Set("offset", searchOffset)
	header.Set("Referer", i.searchURL)

	resp, err := i.transport.Execute(ctx, &driven.Request{
		Method:  http.MethodGet,
		URL:     i.searchURL,
		Header:  header,
		Cookies: []*http.Cookie{{Name: "name", Value: "debtorsearch"}},
	})
	if err != nil {
		logger.Error("fedresurs: search request failed", "error", err)
		return nil, failure.FromTransport(err).Build(), true
	}

	verdict := failure.Classify(resp)
	if !verdict.Success {
		logger.Error("fedresurs: search failed", "status", resp.StatusCode, "category", verdict.Category)
		return nil, verdict.Failure("debtor search failed"), true
	}

	// A "Not found" reply carries no pageData either.
	root, ok := verdict.Payload.(*convert.Object)
	if !ok || !root.Has("pageData") {
		logger.Error("fedresurs: reply has no pageData", "body", resp.Body)
		return nil, noPageData(), true
	}
	pageData, _ := root.Get("pageData")
	entries, ok := pageData.([]any)
	if !ok {
		logger.Error("fedresurs: pageData is not a list", "body", resp.Body)
		return nil, noPageData(), true
	}

	guids = make([]string, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(*convert.Object)
		if !ok {
			guids = append(guids, "")
			continue
		}
		guid, _ := entry.String("guid")
		guids = append(guids, guid)
	}
	return guids, domain.Result{}, false
}

// card fetches one debtor card and returns its birthdate.
// Any failure is logged and reported as ok == false.
func (i *Invoker) card(ctx context.Context, guid string) (time.Time, bool) {
	if guid == "" {
		logger.Warn("fedresurs: search entry has no guid")
		return time.Time{}, false
	}

	header := http.Header{}
	header.Set("Referer", i.cardURL)

	resp, err := i.transport.Execute(ctx, &driven.Request{
		Method: http.MethodGet,
		URL:    i.cardURL + "/" + guid,
		Header: header,
	})
	if err != nil {
		logger.Warn("fedresurs: card request failed", "guid", guid, "error", err)
		return time.Time{}, false
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("fedresurs: card request rejected", "guid", guid, "status", resp.StatusCode)
		return time.Time{}, false
	}

	payload, err := convert.DecodeJSON([]byte(resp.Body))
	if err != nil {
		logger.Warn("fedresurs: card reply is not JSON", "guid", guid, "error", err)
		return time.Time{}, false
	}
	root, ok := payload.(*convert.Object)
	if !ok {
		logger.Warn("fedresurs: card reply is not an object", "guid", guid)
		return time.Time{}, false
	}
	infoVal, _ := root.Get("info")
	info, ok := infoVal.(*convert.Object)
	if !ok {
		logger.Warn("fedresurs: card has no info", "guid", guid)
		return time.Time{}, false
	}
	raw, _ := info.String("birthdateBankruptcy")
	t, err := time.Parse(cardDateLayout, raw)
	if err != nil {
		logger.Warn("fedresurs: card birthdate unreadable", "guid", guid, "value", raw)
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func noPageData() domain.Result {
	return failure.New(domain.CategoryDataConvert).
		Raw("search reply has no pageData list").
		Build()
}

// summary builds the result document. The result is empty when nothing matched.
func summary(matches, total, answered int) domain.Result {
	doc := domain.NewElement(resultRoot,
		domain.NewText("result", strconv.Itoa(matches)),
		domain.NewText("cards_total", strconv.Itoa(total)),
		domain.NewText("cards_answered", strconv.Itoa(answered)),
	)
	return domain.Completed(doc, matches == 0)
}
