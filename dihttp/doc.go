/*
Package dihttp provides HTTP middleware creating a child [wirinj.Injector] for each request.

Example:

	package main

	import (
		"net/http"

		"github.com/go-chi/chi/v5"

		"github.com/davidcim/wirinj"
		"github.com/davidcim/wirinj/dicontext"
		"github.com/davidcim/wirinj/dihttp"
	)

	func main() {
		inj, err := wirinj.NewInjector(
			wirinj.WithModules(AppModule),
			wirinj.NewAutowiring(),
		)
		if err != nil {
			panic(err)
		}

		r := chi.NewRouter()
		r.Use(dihttp.RequestMiddleware(inj,
			dihttp.WithModules(RequestModule),
		))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			h := dicontext.MustGet[*Handler](r.Context())
			h.ServeHTTP(w, r)
		})

		http.ListenAndServe(":8080", r)
	}
*/
package dihttp
