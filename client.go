package procedure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// HTTPRequest describes one transport request. Handlers build these and hand
// them to the bound client; the engine itself never constructs one.
type HTTPRequest struct {
	Method  string
	URL     string
	Query   url.Values
	Headers http.Header
	Body    any
}

// HTTPResponse is the transport client's view of a completed exchange.
type HTTPResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// JSON decodes the response body into v.
func (r *HTTPResponse) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client is the transport boundary. Implementations live outside this
// module; the engine only carries the value into handlers. Failures should
// reject with a taxonomy error or with anything StatusOf can classify, so
// the retry policy can distinguish client errors from transient ones.
type Client interface {
	Get(ctx context.Context, url string) (*HTTPResponse, error)
	Post(ctx context.Context, url string, body any) (*HTTPResponse, error)
	Put(ctx context.Context, url string, body any) (*HTTPResponse, error)
	Patch(ctx context.Context, url string, body any) (*HTTPResponse, error)
	Delete(ctx context.Context, url string) (*HTTPResponse, error)
	Head(ctx context.Context, url string) (*HTTPResponse, error)
	Options(ctx context.Context, url string) (*HTTPResponse, error)
	Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error)
	GetURI(req *HTTPRequest) (string, error)
}
