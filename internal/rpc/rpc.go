// Package rpc wires Connect handlers and clients over a JSON codec.
//
// The services speak the Connect protocol with plain Go structs instead
// of protoc-generated messages, so the codec swaps the default protobuf
// marshaling for encoding/json and the registration helpers replace the
// generated *connect.go glue.
package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// jsonCodec marshals Connect messages with encoding/json. The name
// "json" makes Content-Type application/json resolve to this codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}

// NewHandler builds a Connect unary handler for one procedure, returning
// the mux pattern and handler pair the way generated service code does.
func NewHandler[Req, Res any](
	procedure string,
	unary func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	return procedure, connect.NewUnaryHandler(procedure, unary, opts...)
}

// NewClient builds a Connect client for one procedure against baseURL.
func NewClient[Req, Res any](
	httpClient connect.HTTPClient,
	baseURL, procedure string,
	opts ...connect.ClientOption,
) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
