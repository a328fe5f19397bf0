package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls PortfolioService methods with a static token
type Client struct {
	conn  *grpc.ClientConn
	token string
	owner string
}

// Dial connects to addr without transport security
func Dial(addr, token, owner string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewClient(conn, token, owner), nil
}

// NewClient wraps an existing connection
func NewClient(conn *grpc.ClientConn, token, owner string) *Client {
	return &Client{conn: conn, token: token, owner: owner}
}

// Call invokes method with fields as the request body
func (c *Client) Call(ctx context.Context, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	pairs := []string{"authorization", c.token}
	if c.owner != "" {
		pairs = append(pairs, OwnerMetadataKey, c.owner)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, pairs...)

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}
