package article

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404
// before any request body is read.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		article, err := a.svc.Get(r.Context(), chi.URLParam(r, "articleID"))
		if err != nil {
			a.fail(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
