package finnhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

const (
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// current price field of the /quote response
	pricePath = "$.c"
)

const dateLayout = "2006-01-02"

// Client fetches quotes and news from the Finnhub REST API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

var (
	_ domain.QuoteProvider = (*Client)(nil)
	_ domain.NewsProvider  = (*Client)(nil)
)

// New creates a Finnhub client. An empty baseURL selects DefaultBaseURL.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

// FetchQuote returns the current price of symbol.
// Finnhub answers unknown symbols with a zero price, reported as domain.ErrQuoteUnavailable.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	body, err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, symbol, err)
	}

	price, err := parsePrice(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, symbol, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s: no price in response", domain.ErrQuoteUnavailable, symbol)
	}
	return price, nil
}

func parsePrice(body []byte) (decimal.Decimal, error) {
	var jobj any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return decimal.Zero, fmt.Errorf("invalid json: %w", err)
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %w", pricePath, err)
	}
	// jsonpath may wrap a single answer in a list
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("%q is not a number: %v", pricePath, jval)
	}
}

// MarketNews returns the latest market headlines of category
func (c *Client) MarketNews(ctx context.Context, category string) ([]domain.NewsArticle, error) {
	body, err := c.get(ctx, "/news", url.Values{"category": {category}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s news: %w", category, err)
	}
	return parseNews(body)
}

// CompanyNews returns the headlines about symbol between from and to
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsArticle, error) {
	body, err := c.get(ctx, "/company-news", url.Values{
		"symbol": {symbol},
		"from":   {from.Format(dateLayout)},
		"to":     {to.Format(dateLayout)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
	}
	return parseNews(body)
}

// get calls an endpoint with the API token and returns the body of a 200 response
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("token", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

type newsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// parseNews decodes a JSON array of articles. Unknown fields are ignored.
func parseNews(body []byte) ([]domain.NewsArticle, error) {
	var items []newsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("invalid news json: %w", err)
	}

	articles := make([]domain.NewsArticle, 0, len(items))
	for _, it := range items {
		article := domain.NewsArticle{
			ID:       it.ID,
			Category: it.Category,
			Headline: it.Headline,
			Image:    it.Image,
			Related:  it.Related,
			Source:   it.Source,
			Summary:  it.Summary,
			URL:      it.URL,
		}
		if it.Datetime > 0 {
			article.Datetime = time.Unix(it.Datetime, 0).UTC()
		}
		articles = append(articles, article)
	}
	return articles, nil
}
