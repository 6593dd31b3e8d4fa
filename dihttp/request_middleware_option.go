package dihttp

import (
	"github.com/davidcim/wirinj"
)

// MiddlewareOption is an option used to configure the middleware when calling [RequestMiddleware].
type MiddlewareOption interface {
	applyMiddleware(*requestMiddleware)
}

type middlewareOption func(*requestMiddleware)

func (o middlewareOption) applyMiddleware(m *requestMiddleware) {
	o(m)
}

// WithModules adds definitions to each request injector.
// They take precedence over the definitions of the parent injector.
func WithModules(modules ...wirinj.Module) MiddlewareOption {
	return middlewareOption(func(m *requestMiddleware) {
		m.modules = append(m.modules, modules...)
	})
}

// WithErrorHandler sets the function called when the request injector cannot be created.
//
// The default handler logs the error to [slog.Default()] and writes a 500 Internal Server Error response.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return middlewareOption(func(m *requestMiddleware) {
		m.errorHandler = h
	})
}
