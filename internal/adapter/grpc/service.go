package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthflow.v1.PortfolioService"

// PortfolioServer is the server API for the portfolio service.
// Every method takes and returns a structpb.Struct; money travels as decimal strings.
type PortfolioServer interface {
	CreateHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHoldings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecomputeHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulateWithdrawal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RebuildHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetNetWorth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddLiability(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveLiability(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshPrices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProjectFixedIncome(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProjectHolding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompareFixedIncome(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlanFirstMillion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlanEmergencyReserve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetReferenceRate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReferenceRate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes PortfolioService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateHolding", PortfolioServer.CreateHolding),
		unaryMethod("ListHoldings", PortfolioServer.ListHoldings),
		unaryMethod("DeleteHolding", PortfolioServer.DeleteHolding),
		unaryMethod("RecordTransaction", PortfolioServer.RecordTransaction),
		unaryMethod("DeleteTransaction", PortfolioServer.DeleteTransaction),
		unaryMethod("RecomputeHolding", PortfolioServer.RecomputeHolding),
		unaryMethod("SimulateWithdrawal", PortfolioServer.SimulateWithdrawal),
		unaryMethod("RebuildHistory", PortfolioServer.RebuildHistory),
		unaryMethod("GetHistory", PortfolioServer.GetHistory),
		unaryMethod("GetNetWorth", PortfolioServer.GetNetWorth),
		unaryMethod("AddLiability", PortfolioServer.AddLiability),
		unaryMethod("RemoveLiability", PortfolioServer.RemoveLiability),
		unaryMethod("RefreshPrices", PortfolioServer.RefreshPrices),
		unaryMethod("ProjectFixedIncome", PortfolioServer.ProjectFixedIncome),
		unaryMethod("ProjectHolding", PortfolioServer.ProjectHolding),
		unaryMethod("CompareFixedIncome", PortfolioServer.CompareFixedIncome),
		unaryMethod("PlanFirstMillion", PortfolioServer.PlanFirstMillion),
		unaryMethod("PlanEmergencyReserve", PortfolioServer.PlanEmergencyReserve),
		unaryMethod("SetReferenceRate", PortfolioServer.SetReferenceRate),
		unaryMethod("GetReferenceRate", PortfolioServer.GetReferenceRate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthflow/v1/portfolio.proto",
}

// RegisterPortfolioServer registers srv on s
func RegisterPortfolioServer(s grpc.ServiceRegistrar, srv PortfolioServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryCall func(PortfolioServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryMethod builds the handler the generated code would have produced for method
func unaryMethod(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortfolioServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PortfolioServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the "/service/method" path of a PortfolioService method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
