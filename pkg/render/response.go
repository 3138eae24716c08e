package render

import (
	"context"
	"net/http"
	"strconv"
)

// Response is a minimal content-holding response, decoupled from any HTTP
// framework. Callers that want their own response type should use
// RenderToResponseAs.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse wraps rendered markup in a 200 text/html response.
func NewResponse(content string) *Response {
	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	return &Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       []byte(content),
	}
}

// Write copies the response onto a net/http ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(r.StatusCode)
	_, err := w.Write(r.Body)
	return err
}

// RenderToResponse renders the requested component and wraps the markup in
// the default Response type.
func (p *Pipeline) RenderToResponse(ctx context.Context, req Request) (*Response, error) {
	html, err := p.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewResponse(html), nil
}

// RenderToResponseAs renders the requested component and hands the markup
// to a caller-supplied response constructor.
func RenderToResponseAs[T any](ctx context.Context, p *Pipeline, req Request, wrap func(content string) T) (T, error) {
	var zero T
	html, err := p.Render(ctx, req)
	if err != nil {
		return zero, err
	}
	return wrap(html), nil
}
