package dihttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/davidcim/wirinj"
	"github.com/davidcim/wirinj/dicontext"
)

// These types are defined in each request injector.
var (
	TypeRequest = wirinj.TypeOf[*http.Request]()
	TypeContext = wirinj.TypeOf[context.Context]()
)

// RequestMiddleware creates a child of inj for each request, see [wirinj.Injector.NewChild].
//
// The current [*http.Request] and its [context.Context] are defined in the child by type,
// so they can be injected into anything the child builds.
//
// The child is stored on the request context and can be accessed using [dicontext.Injector],
// [dicontext.Get], or [dicontext.MustGet].
//
// Available options:
//   - [WithModules]: Add definitions to each request injector.
//   - [WithErrorHandler]: Set the error handler for when the request injector cannot be created.
func RequestMiddleware(inj *wirinj.Injector, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	mw := &requestMiddleware{
		inj:          inj,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt.applyMiddleware(mw)
	}

	return func(next http.Handler) http.Handler {
		return &requestHandler{requestMiddleware: mw, next: next}
	}
}

// ErrorHandler is a function that writes an error response to the client.
// This is called by the middleware when the request injector cannot be created.
//
// The default handler logs the error to [slog.Default()] and writes a 500 Internal Server Error response.
type ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "error creating HTTP request injector", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type requestMiddleware struct {
	inj          *wirinj.Injector
	modules      []wirinj.Module
	errorHandler ErrorHandler
}

type requestHandler struct {
	*requestMiddleware
	next http.Handler
}

func (h *requestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	request := wirinj.Module{
		wirinj.Define(TypeRequest, r),
		wirinj.Define(TypeContext, ctx),
	}

	child, err := h.inj.NewChild(
		wirinj.WithModules(append([]wirinj.Module{request}, h.modules...)...),
	)
	if err != nil {
		if h.errorHandler != nil {
			h.errorHandler(w, r, err)
		}
		return
	}

	ctx = dicontext.WithInjector(ctx, child)
	h.next.ServeHTTP(w, r.WithContext(ctx))
}
