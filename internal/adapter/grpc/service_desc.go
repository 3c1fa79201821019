package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the portfolio service
const ServiceName = "portfolio.v1.PortfolioService"

// PortfolioServiceServer is the server API for the portfolio service.
// Every request and response is a google.protobuf.Struct.
type PortfolioServiceServer interface {
	ListHoldings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHoldingsByType(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchHoldings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAllocation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPerformanceByType(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMarketNews(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCompanyNews(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(PortfolioServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortfolioServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the portfolio service for grpc.Server registration
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("ListHoldings", PortfolioServiceServer.ListHoldings),
		methodDesc("GetHolding", PortfolioServiceServer.GetHolding),
		methodDesc("ListHoldingsByType", PortfolioServiceServer.ListHoldingsByType),
		methodDesc("SearchHoldings", PortfolioServiceServer.SearchHoldings),
		methodDesc("CreateHolding", PortfolioServiceServer.CreateHolding),
		methodDesc("UpdateHolding", PortfolioServiceServer.UpdateHolding),
		methodDesc("DeleteHolding", PortfolioServiceServer.DeleteHolding),
		methodDesc("GetSummary", PortfolioServiceServer.GetSummary),
		methodDesc("GetAllocation", PortfolioServiceServer.GetAllocation),
		methodDesc("GetPerformanceByType", PortfolioServiceServer.GetPerformanceByType),
		methodDesc("GetMarketNews", PortfolioServiceServer.GetMarketNews),
		methodDesc("GetCompanyNews", PortfolioServiceServer.GetCompanyNews),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portfolio/v1/portfolio.proto",
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the portfolio service over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new Client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and returns the response message
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
