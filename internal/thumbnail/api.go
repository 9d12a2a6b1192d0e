package thumbnail

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/logger"
	"github.com/SergeyParamoshkin/blog/internal/store"
)

const (
	// FormField is the multipart field carrying the image.
	FormField = "thumbnail"

	messageNotFound = "Couldn't find any thumbnail with provided id."

	// Room for multipart boundaries and part headers on top of the file itself.
	multipartOverhead = 64 << 10
)

var (
	errEmptyUpload = errors.New("empty upload")
	errTooLarge    = errors.New("thumbnail exceeds size limit")
)

type API struct {
	svc      *Service
	maxBytes int64
}

func NewAPI(svc *Service, maxBytes int64) *API {
	return &API{svc: svc, maxBytes: maxBytes}
}

// Routes mounts the thumbnail endpoints, relative to /thumbnails.
func (a *API) Routes(r chi.Router) {
	r.Get("/{articleID}", a.FetchThumbnail)
	r.Post("/{articleID}", a.UploadThumbnail)
}

// UploadThumbnail accepts the image either as the multipart field
// "thumbnail" or as the raw request body.
func (a *API) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxBytes+multipartOverhead)

	data, err := a.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, errTooLarge) {
			a.respond(w, r, errresponse.ErrTooLarge(err))

			return
		}
		a.respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	if err := a.svc.Upload(r.Context(), chi.URLParam(r, "articleID"), data); err != nil {
		a.fail(w, r, err)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// FetchThumbnail writes the stored bytes as the response body.
func (a *API) FetchThumbnail(w http.ResponseWriter, r *http.Request) {
	data, err := a.svc.Fetch(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		a.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Errorw("write thumbnail", "error", err)
	}
}

func (a *API) readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var src io.Reader = r.Body
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(a.maxBytes); err != nil {
			return nil, err
		}
		f, _, err := r.FormFile(FormField)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(io.LimitReader(src, a.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > a.maxBytes {
		return nil, errTooLarge
	}
	if len(data) == 0 {
		return nil, errEmptyUpload
	}

	return data, nil
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logger.FromContext(r.Context()).Errorw("render response", "error", err)
		_ = render.Render(w, r, errresponse.ErrRender(err))
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.respond(w, r, errresponse.ErrNotFound(messageNotFound))
	case errors.Is(err, store.ErrInvalidKey):
		a.respond(w, r, errresponse.ErrInvalidRequest(err))
	default:
		logger.FromContext(r.Context()).Errorw("thumbnail store failure", "error", err)
		a.respond(w, r, errresponse.ErrBackend(err))
	}
}
