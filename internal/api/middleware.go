package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Middleware func(next http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base so the first middleware sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

type TokenSource interface {
	Token() string
}

// TokenMiddleware attaches the session token to API calls. The login
// endpoint and requests outside prefix are left alone, as are requests
// made while no token is known.
func TokenMiddleware(src TokenSource, prefix, loginPath string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			if !strings.HasPrefix(path, prefix) || path == loginPath {
				return next.RoundTrip(req)
			}

			token := src.Token()
			if token == "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set(TokenHeader, token)

			return next.RoundTrip(req)
		})
	}
}

// UnauthorizedMiddleware calls handler for every 401 response. The
// response is still handed back to the caller.
func UnauthorizedMiddleware(handler func(req *http.Request)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err == nil && resp.StatusCode == http.StatusUnauthorized {
				handler(req)
			}
			return resp, err
		})
	}
}

func RequestIDMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, uuid.NewString())

			return next.RoundTrip(req)
		})
	}
}

func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, errors.Wrap(err, "waiting for rate limiter")
			}
			return next.RoundTrip(req)
		})
	}
}

type RequestObserver interface {
	// ObserveRequest is called once per round trip. code is 0 when no
	// response was received.
	ObserveRequest(method string, code int, elapsed time.Duration)
}

// ObserveMiddleware reports every round trip to obs and logs it at debug level.
func ObserveMiddleware(log *zap.Logger, obs RequestObserver) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			code := 0
			if resp != nil {
				code = resp.StatusCode
			}

			obs.ObserveRequest(req.Method, code, elapsed)
			log.Debug("api request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("code", code),
				zap.Duration("elapsed", elapsed),
				zap.String("requestID", req.Header.Get(RequestIDHeader)),
				zap.Error(err),
			)

			return resp, err
		})
	}
}
