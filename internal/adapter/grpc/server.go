package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/dto"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/news"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/portfolio"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	PortfolioService *portfolio.PortfolioService
	NewsService      *news.NewsService
}

var _ PortfolioServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(portfolioService *portfolio.PortfolioService, newsService *news.NewsService) *Server {
	return &Server{
		PortfolioService: portfolioService,
		NewsService:      newsService,
	}
}

type idRequest struct {
	ID string `json:"id"`
}

type typeRequest struct {
	Type string `json:"type"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type marketNewsRequest struct {
	Category string `json:"category"`
}

type companyNewsRequest struct {
	Symbol string `json:"symbol"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type updateRequest struct {
	ID string `json:"id"`
	dto.HoldingRequest
}

// ListHoldings handles the ListHoldings RPC
func (s *Server) ListHoldings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	valuations, err := s.PortfolioService.ListHoldings(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holdings": dto.FromValuations(valuations)})
}

// GetHolding handles the GetHolding RPC
func (s *Server) GetHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	// Parse holding ID
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	v, err := s.PortfolioService.GetHolding(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holding": dto.FromValuation(v)})
}

// ListHoldingsByType handles the ListHoldingsByType RPC
func (s *Server) ListHoldingsByType(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in typeRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	assetType, err := domain.ParseAssetType(in.Type)
	if err != nil {
		return nil, mapError(err)
	}

	valuations, err := s.PortfolioService.ListHoldingsByType(ctx, assetType)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holdings": dto.FromValuations(valuations)})
}

// SearchHoldings handles the SearchHoldings RPC
func (s *Server) SearchHoldings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in searchRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	valuations, err := s.PortfolioService.SearchHoldings(ctx, in.Query)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holdings": dto.FromValuations(valuations)})
}

// CreateHolding handles the CreateHolding RPC
func (s *Server) CreateHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.HoldingRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	draft, err := in.ToDraft()
	if err != nil {
		return nil, mapError(err)
	}

	v, err := s.PortfolioService.CreateHolding(ctx, draft)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holding": dto.FromValuation(v)})
}

// UpdateHolding handles the UpdateHolding RPC
func (s *Server) UpdateHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in updateRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	// Parse holding ID
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	draft, err := in.ToDraft()
	if err != nil {
		return nil, mapError(err)
	}

	v, err := s.PortfolioService.UpdateHolding(ctx, id, draft)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"holding": dto.FromValuation(v)})
}

// DeleteHolding handles the DeleteHolding RPC
func (s *Server) DeleteHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	// Parse holding ID
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	if err := s.PortfolioService.DeleteHolding(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// GetSummary handles the GetSummary RPC
func (s *Server) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	summary, err := s.PortfolioService.GetSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(dto.FromSummary(summary))
}

// GetAllocation handles the GetAllocation RPC
func (s *Server) GetAllocation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	allocation, err := s.PortfolioService.GetAllocation(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"allocation": dto.Allocation(allocation)})
}

// GetPerformanceByType handles the GetPerformanceByType RPC
func (s *Server) GetPerformanceByType(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	perf, err := s.PortfolioService.GetPerformanceByType(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"performance": dto.Performance(perf)})
}

// GetMarketNews handles the GetMarketNews RPC
func (s *Server) GetMarketNews(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in marketNewsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	articles := s.NewsService.MarketNews(ctx, in.Category)
	return encode(map[string]any{"news": dto.FromNews(articles)})
}

// GetCompanyNews handles the GetCompanyNews RPC
func (s *Server) GetCompanyNews(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in companyNewsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	from, err := parseDate(in.From)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid from date: %v", err)
	}
	to, err := parseDate(in.To)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid to date: %v", err)
	}

	articles, err := s.NewsService.CompanyNews(ctx, in.Symbol, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	return encode(map[string]any{"news": dto.FromNews(articles)})
}

// parseDate reads an optional YYYY-MM-DD date, zero when blank
func parseDate(raw string) (time.Time, error) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

// decode converts a request message into v through its JSON form
func decode(req *structpb.Struct, v any) error {
	if req == nil {
		return nil
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// encode converts v into a response message through its JSON form
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	// Default to Internal for unknown errors
	return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", err))
}
