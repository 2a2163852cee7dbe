package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/ajg/form"
	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/monotours24/tour-search-service/internal/pkg/exception"
)

var ErrInvalidRequest = exception.ApplicationError{
	Message:    "invalid request",
	StatusCode: http.StatusBadRequest,
}

// Binder is a request DTO decoded by DecodeRequest or DecodeQuery.
type Binder[T any] interface {
	*T
	render.Binder
}

// MakeHandlerFunc serves a go-kit endpoint with the given codecs. Errors go
// through ErrorResponse.
func MakeHandlerFunc(
	e endpoint.Endpoint,
	dec kithttp.DecodeRequestFunc,
	enc kithttp.EncodeResponseFunc,
) http.HandlerFunc {
	return kithttp.NewServer(e, dec, enc,
		kithttp.ServerErrorEncoder(ErrorResponse),
	).ServeHTTP
}

// DecodeRequest decodes the body by content type and runs the DTO's Bind.
// An empty body leaves the DTO zero valued.
func DecodeRequest[T any, PT Binder[T]](_ context.Context, r *http.Request) (interface{}, error) {
	req := PT(new(T))

	if err := render.Decode(r, req); err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrInvalidRequest.WithDetail(err.Error())
	}

	if err := req.Bind(r); err != nil {
		return nil, bindError(err)
	}

	return req, nil
}

// DecodeQuery decodes the URL query into the DTO's form tags and runs its
// Bind. Unknown and empty parameters are ignored.
func DecodeQuery[T any, PT Binder[T]](_ context.Context, r *http.Request) (interface{}, error) {
	req := PT(new(T))

	decoder := form.NewDecoder(nil)
	decoder.IgnoreUnknownKeys(true)

	if err := decoder.DecodeValues(req, nonEmpty(r.URL.Query())); err != nil {
		return nil, ErrInvalidRequest.WithDetail(err.Error())
	}

	if err := req.Bind(r); err != nil {
		return nil, bindError(err)
	}

	return req, nil
}

// DecodeEmpty is for endpoints without input.
func DecodeEmpty[T any](_ context.Context, _ *http.Request) (interface{}, error) {
	return new(T), nil
}

func nonEmpty(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, vals := range values {
		for _, v := range vals {
			if v != "" {
				out[key] = append(out[key], v)
			}
		}
	}

	return out
}

func bindError(err error) error {
	var appErr exception.ApplicationError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInvalidRequest.WithDetail(err.Error())
}
