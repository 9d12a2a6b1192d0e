package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/logger"
	"github.com/SergeyParamoshkin/blog/internal/telemetry"
	"github.com/SergeyParamoshkin/blog/internal/thumbnail"
)

// Deps are the constructed-once collaborators the router serves.
type Deps struct {
	Logger     *zap.SugaredLogger
	Articles   *article.Service
	Thumbnails *thumbnail.Service
	// Metrics is optional.
	Metrics *telemetry.Metrics

	BasePath          string
	MaxThumbnailBytes int64
}

// NewRouter builds the public HTTP surface.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(d.Logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			logger.FromContext(r.Context()).Errorw("write ping", "error", err)
		}
	})

	articles := article.NewAPI(d.Articles)
	thumbnails := thumbnail.NewAPI(d.Thumbnails, d.MaxThumbnailBytes)

	r.Route(basePath(d.BasePath), func(r chi.Router) {
		r.Route("/blog/articles", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			articles.Routes(r)
		})

		r.Route("/thumbnails", thumbnails.Routes)

		// Mail delivery has no defined behaviour yet.
		r.Post("/mail/post", func(w http.ResponseWriter, r *http.Request) {
			if err := render.Render(w, r, errresponse.ErrNotImplemented()); err != nil {
				logger.FromContext(r.Context()).Errorw("render response", "error", err)
			}
		})
	})

	return r
}

// NewDiagRouter serves operational endpoints on a separate listener.
func NewDiagRouter(m *telemetry.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", m.Handler().ServeHTTP)

	return r
}

func basePath(p string) string {
	if p == "" {
		return "/"
	}

	return p
}
