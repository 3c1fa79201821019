package domain

import (
	"context"
	"time"
)

// DefaultNewsCategory is used when no market news category is given
const DefaultNewsCategory = "general"

// DefaultNewsWindow is how far back company news reaches when no start date is given
const DefaultNewsWindow = 30 * 24 * time.Hour

// NewsArticle is one headline from the market data source
type NewsArticle struct {
	ID       int64
	Category string
	Datetime time.Time
	Headline string
	Image    string
	Related  string
	Source   string
	Summary  string
	URL      string
}

// NewsProvider fetches headlines from an external market data source
type NewsProvider interface {
	// MarketNews returns the latest headlines of a category (general, forex, crypto, merger)
	MarketNews(ctx context.Context, category string) ([]NewsArticle, error)

	// CompanyNews returns headlines about symbol published between from and to, both inclusive dates
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsArticle, error)
}
