// Package apiconnect holds the Connect handlers and clients for eventsplit.v1.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/pkg/api"
)

// The JSON codec goes first so callers can still override it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
