// Package server wires request processor into chi routers
package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/middleware"
	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/processor"
	"github.com/aldor007/imgfind/pkg/response"
)

// NewRouter creates public router
// Every collection gets list route /{name} and image route /{name}/{identifier}.
func NewRouter(cfg *config.Config, rp *processor.RequestProcessor) http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	if cfg.Server.AccessLog {
		router.Use(middleware.AccessLog("imgfind", cfg.Server.LogLevel))
	}
	router.Use(middleware.Recoverer)

	routes := func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			send(w, rp.Health())
		})

		r.Get("/site-images", func(w http.ResponseWriter, req *http.Request) {
			send(w, rp.SiteImages(req.Context(), rp.BaseURL(req)))
		})

		r.Get("/site-images/test", func(w http.ResponseWriter, req *http.Request) {
			send(w, rp.SiteImagesTest())
		})

		for _, name := range rp.Collections() {
			collection := name
			r.Get("/"+collection, func(w http.ResponseWriter, req *http.Request) {
				send(w, rp.ListImages(req.Context(), collection))
			})

			r.Get("/"+collection+"/{identifier}", func(w http.ResponseWriter, req *http.Request) {
				id, err := identifier(req)
				if err != nil {
					monitoring.Log().Warn("Invalid filename requested", zap.String("path", req.URL.RawPath), zap.Error(err))
					send(w, response.NewString(http.StatusBadRequest, "Invalid filename"))
					return
				}

				send(w, rp.GetImage(req.Context(), collection, id))
			})
		}
	}

	if cfg.Server.PathPrefix != "" {
		router.Route(cfg.Server.PathPrefix, routes)
	} else {
		routes(router)
	}

	return router
}

// NewInternalRouter creates router for internal listener with metrics
func NewInternalRouter(rp *processor.RequestProcessor) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		send(w, rp.Health())
	})

	return router
}

// identifier returns decoded identifier route param
// chi routes on escaped path when it differs from decoded one, so %2F stays encoded in param
func identifier(req *http.Request) (string, error) {
	id := chi.URLParam(req, "identifier")
	if req.URL.RawPath == "" {
		return id, nil
	}

	return url.PathUnescape(id)
}

func send(w http.ResponseWriter, res *response.Response) {
	if err := res.Send(w); err != nil {
		monitoring.Log().Warn("Unable to send response", zap.Int("sc", res.StatusCode), zap.Error(err))
	}
}
