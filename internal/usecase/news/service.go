package news

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// SymbolValidator reports whether a live price exists for a symbol
type SymbolValidator interface {
	IsValid(ctx context.Context, symbol string) bool
}

// NewsService serves market and company headlines.
// Provider failures yield an empty list rather than an error.
type NewsService struct {
	provider domain.NewsProvider
	symbols  SymbolValidator
	now      func() time.Time
	log      zerolog.Logger
}

// NewNewsService creates a new NewsService instance
func NewNewsService(provider domain.NewsProvider, symbols SymbolValidator, log zerolog.Logger) *NewsService {
	return &NewsService{
		provider: provider,
		symbols:  symbols,
		now:      time.Now,
		log:      log.With().Str("component", "news").Logger(),
	}
}

// MarketNews returns the latest headlines of category, "general" when blank
func (s *NewsService) MarketNews(ctx context.Context, category string) []domain.NewsArticle {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = domain.DefaultNewsCategory
	}

	articles, err := s.provider.MarketNews(ctx, category)
	if err != nil {
		s.log.Error().Err(err).Str("category", category).Msg("failed to fetch market news")
		return []domain.NewsArticle{}
	}
	return nonNil(articles)
}

// CompanyNews returns the headlines about symbol between from and to.
// A zero to means today and a zero from means 30 days before today.
// The symbol must have a live price, otherwise a ValidationError is returned.
func (s *NewsService) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsArticle, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" || !s.symbols.IsValid(ctx, symbol) {
		return nil, &domain.ValidationError{Field: "symbol", Reason: "invalid or empty stock symbol provided"}
	}

	today := domain.TruncateToDate(s.now())
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = today.Add(-domain.DefaultNewsWindow)
	}
	if from.After(to) {
		return nil, &domain.ValidationError{Field: "from", Reason: "must not be after to"}
	}

	articles, err := s.provider.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("failed to fetch company news")
		return []domain.NewsArticle{}, nil
	}
	return nonNil(articles), nil
}

func nonNil(articles []domain.NewsArticle) []domain.NewsArticle {
	if articles == nil {
		return []domain.NewsArticle{}
	}
	return articles
}
