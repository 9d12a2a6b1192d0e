package article

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store/memstore"
)

type brokenRenderer struct{}

func (brokenRenderer) Render(http.ResponseWriter, *http.Request) error {
	return errors.New("cannot prepare payload")
}

func TestRespondFallsBackToErrRender(t *testing.T) {
	a := NewAPI(NewService(memstore.NewCollection[model.Article]()))

	rec := httptest.NewRecorder()
	a.respond(rec, httptest.NewRequest(http.MethodGet, "/", nil), brokenRenderer{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnprocessableEntity, body.Status)
	assert.Equal(t, "Error rendering response.", body.Message)
}

func TestPatchLoadsArticleBeforeReadingBody(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/articles", NewAPI(NewService(memstore.NewCollection[model.Article]())).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/articles/never-issued", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Couldn't find any blog article with provided id.")
}
