package article

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/articlerequest"
	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/logger"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/validate"
)

// API exposes Service over HTTP.
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

// Routes mounts the article endpoints, relative to /blog/articles.
func (a *API) Routes(r chi.Router) {
	r.Get("/", a.ListArticles)
	r.Post("/", a.CreateArticle)

	r.Route("/{articleID}", func(r chi.Router) {
		r.Use(a.ArticleCtx) // Load the *Article on the request context
		r.Get("/", a.GetArticle)
		r.Patch("/", a.UpdateArticle)
		r.Delete("/", a.DeleteArticle)
	})
}

// ListArticles returns the metadata group of every article.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	infos, err := a.svc.List(r.Context())
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.respond(w, r, articleresponse.NewArticleListResponse(infos))
}

// GetArticle returns the full record loaded by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := r.Context().Value(ctxKeyArticle).(*model.Article)
	if !ok {
		a.respond(w, r, errresponse.ErrNotFound(errresponse.MessageNotFound))

		return
	}

	a.respond(w, r, articleresponse.NewArticleResponse(article))
}

// CreateArticle persists the posted Article and returns it
// back to the client with its server-generated fields.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.CreateRequest{}
	if err := render.Bind(r, data); err != nil {
		a.invalid(w, r, err)

		return
	}

	article, err := a.svc.Create(r.Context(), data.Draft())
	if err != nil {
		a.fail(w, r, err)

		return
	}

	logger.FromContext(r.Context()).Infow("article created",
		"uuid", article.ContentInfo.UUID, "slug", article.ContentInfo.Slug)
	a.respond(w, r, articleresponse.NewArticleResponse(article))
}

// UpdateArticle merges the supplied fields into an existing Article.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.PatchRequest{}
	if err := render.Bind(r, data); err != nil {
		a.invalid(w, r, err)

		return
	}

	article, err := a.svc.Update(r.Context(), chi.URLParam(r, "articleID"), data.Patch())
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.respond(w, r, articleresponse.NewArticleResponse(article))
}

// DeleteArticle removes an existing Article. Its thumbnail is left alone.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), chi.URLParam(r, "articleID")); err != nil {
		a.fail(w, r, err)

		return
	}

	a.respond(w, r, articleresponse.NewStatusResponse(http.StatusOK))
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logger.FromContext(r.Context()).Errorw("render response", "error", err)
		_ = render.Render(w, r, errresponse.ErrRender(err))
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		a.respond(w, r, errresponse.ErrNotFound(errresponse.MessageNotFound))

		return
	}

	logger.FromContext(r.Context()).Errorw("article store failure", "error", err)
	a.respond(w, r, errresponse.ErrBackend(err))
}

func (a *API) invalid(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		a.respond(w, r, errresponse.ErrValidation(err, verr.Fields))

		return
	}

	a.respond(w, r, errresponse.ErrInvalidRequest(err))
}
