package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// Response is the success envelope shared by every JSON endpoint.
type Response struct {
	Status int         `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func (rd *Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, rd.Status)

	return nil
}

// NewArticleResponse wraps a full record, metadata and content.
func NewArticleResponse(article *model.Article) *Response {
	return &Response{Status: http.StatusOK, Data: article}
}

// NewArticleListResponse wraps the metadata groups of a listing. The data
// field is always an array, even when empty.
func NewArticleListResponse(infos []*model.ContentInfo) *Response {
	if infos == nil {
		infos = []*model.ContentInfo{}
	}

	return &Response{Status: http.StatusOK, Data: infos}
}

// NewStatusResponse carries only the status marker.
func NewStatusResponse(status int) *Response {
	return &Response{Status: status}
}
