package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the Trips service over a connection using the JSON codec.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// WithToken attaches a session token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, authorizationKey, "Bearer "+token)
}

func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	out := new(LoginResponse)
	return out, c.invoke(ctx, "Login", req, out)
}

func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	out := new(SearchResponse)
	return out, c.invoke(ctx, "Search", req, out)
}

func (c *Client) Reserve(ctx context.Context, req *ReserveRequest) (*ReserveResponse, error) {
	out := new(ReserveResponse)
	return out, c.invoke(ctx, "Reserve", req, out)
}

func (c *Client) Cancel(ctx context.Context, req *CancelRequest) (*CancelResponse, error) {
	out := new(CancelResponse)
	return out, c.invoke(ctx, "Cancel", req, out)
}

func (c *Client) ListReservations(ctx context.Context, req *ListReservationsRequest) (*ListReservationsResponse, error) {
	out := new(ListReservationsResponse)
	return out, c.invoke(ctx, "ListReservations", req, out)
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(CodecName))
}
