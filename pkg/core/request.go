package core

import "maps"

// Params is a field-value mapping representing one API call's parameters.
// A nil value marks the field as absent: it is dropped before encoding and
// never contributes to the request signature.
type Params map[string]any

// Request describes one outgoing API call before transport and signing.
// Params holds the signable fields; for mutating calls the same values are
// transmitted as the form body, for reads they become the query string.
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Params      Params            `json:"params,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequireAuth bool              `json:"require_auth"`
	// Bucket selects the rate-limit bucket; empty means the global bucket.
	Bucket string `json:"bucket,omitempty"`
}

// NewRequest creates a Request for the given method and path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Params:  make(Params),
		Headers: make(map[string]string),
	}
}

// SetParam sets a single signable parameter.
func (r *Request) SetParam(key string, value any) *Request {
	if r.Params == nil {
		r.Params = make(Params)
	}
	r.Params[key] = value
	return r
}

// SetParams merges the given parameters into the request.
func (r *Request) SetParams(params Params) *Request {
	if r.Params == nil {
		r.Params = make(Params)
	}
	maps.Copy(r.Params, params)
	return r
}

// SetHeader sets a request header.
func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// SetRequireAuth marks the request as needing signature headers.
func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

// SetBucket assigns the request to a named rate-limit bucket.
func (r *Request) SetBucket(bucket string) *Request {
	r.Bucket = bucket
	return r
}
