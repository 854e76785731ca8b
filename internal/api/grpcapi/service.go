package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "airtrips.v1.Trips"

type TripsServer interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	Reserve(ctx context.Context, req *ReserveRequest) (*ReserveResponse, error)
	Cancel(ctx context.Context, req *CancelRequest) (*CancelResponse, error)
	ListReservations(ctx context.Context, req *ListReservationsRequest) (*ListReservationsResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TripsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", TripsServer.Login),
		unary("Search", TripsServer.Search),
		unary("Reserve", TripsServer.Reserve),
		unary("Cancel", TripsServer.Cancel),
		unary("ListReservations", TripsServer.ListReservations),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airtrips/v1/trips",
}

func RegisterTripsServer(s grpc.ServiceRegistrar, srv TripsServer) {
	s.RegisterService(&serviceDesc, srv)
}

func unary[Req, Resp any](name string, call func(TripsServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TripsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TripsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
