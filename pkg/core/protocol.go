package core

import (
	"context"
	"net/url"

	"resty.dev/v3"
)

// Protocol defines the exchange-specific half of the client: request
// building, response parsing, and authentication. The client executes
// requests through this interface so transport concerns stay separate from
// the wire protocol.
type Protocol interface {
	// Name returns the exchange identifier.
	Name() string

	// Version returns the API version being used.
	Version() string

	// BaseURL returns the REST base URL for the given environment.
	BaseURL(env Environment) string

	// StreamURL returns the websocket push endpoint for the given
	// environment and application ID.
	StreamURL(env Environment, applicationID string) string

	// BuildRequest constructs a Request for the specified operation.
	// The params map contains operation-specific signable parameters.
	BuildRequest(ctx context.Context, op Operation, params Params) (*Request, error)

	// ParseResponse deserializes the HTTP response and normalizes it to
	// canonical types, mapping error envelopes to *ExchangeError.
	ParseResponse(op Operation, resp *resty.Response) (any, error)

	// SignRequest attaches authentication headers to the request. The
	// values must be exactly the formatted parameters that will be
	// transmitted; signing anything else produces a signature the server
	// rejects.
	SignRequest(req *resty.Request, values url.Values, timestamp int64, creds Credentials) error

	// SupportedOperations returns the operations this protocol supports.
	SupportedOperations() []Operation
}
