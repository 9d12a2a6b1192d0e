// Package client is a Go client for the blog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

type (
	Article     = model.Article
	ContentInfo = model.ContentInfo
	Body        = model.Body
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// APIError is any other non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("blog api: %d %s %v", e.StatusCode, e.Message, e.Fields)
	}

	return fmt.Sprintf("blog api: %d %s", e.StatusCode, e.Message)
}

// Client talks to a blog API server. Addr is the server root, for example
// http://localhost:8080; BasePath defaults to /api.
type Client struct {
	http.Client
	Addr     string
	BasePath string
}

// NewArticle is the payload for CreateArticle.
type NewArticle struct {
	Title          string
	Description    string
	Keywords       []string
	Author         string
	ArticleContent string
}

// ArticlePatch is the payload for UpdateArticle. Nil fields are left as they
// are on the server.
type ArticlePatch struct {
	Title          *string
	Description    *string
	Keywords       *[]string
	Author         *string
	ArticleContent *string
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) ListArticles(ctx context.Context) ([]ContentInfo, error) {
	var infos []ContentInfo
	if err := c.doJSON(ctx, http.MethodGet, "/blog/articles", nil, &infos); err != nil {
		return nil, err
	}

	return infos, nil
}

func (c *Client) GetArticle(ctx context.Context, id string) (*Article, error) {
	var a Article
	if err := c.doJSON(ctx, http.MethodGet, "/blog/articles/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) CreateArticle(ctx context.Context, n NewArticle) (*Article, error) {
	keywords := n.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	payload := map[string]interface{}{
		"content-info": map[string]interface{}{
			"title":       n.Title,
			"description": n.Description,
			"keywords":    keywords,
			"author":      n.Author,
		},
		"body": map[string]interface{}{
			"article-content": n.ArticleContent,
		},
	}

	var a Article
	if err := c.doJSON(ctx, http.MethodPost, "/blog/articles", payload, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id string, p ArticlePatch) (*Article, error) {
	info := map[string]interface{}{}
	if p.Title != nil {
		info["title"] = *p.Title
	}
	if p.Description != nil {
		info["description"] = *p.Description
	}
	if p.Keywords != nil {
		info["keywords"] = *p.Keywords
	}
	if p.Author != nil {
		info["author"] = *p.Author
	}

	payload := map[string]interface{}{"content-info": info}
	if p.ArticleContent != nil {
		payload["body"] = map[string]interface{}{"article-content": *p.ArticleContent}
	}

	var a Article
	if err := c.doJSON(ctx, http.MethodPatch, "/blog/articles/"+url.PathEscape(id), payload, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/blog/articles/"+url.PathEscape(id), nil, nil)
}

// UploadThumbnail sends data as the multipart field "thumbnail".
func (c *Client) UploadThumbnail(ctx context.Context, id, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("thumbnail", filename)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/thumbnails/"+url.PathEscape(id)), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) FetchThumbnail(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/thumbnails/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) url(path string) string {
	base := c.BasePath
	if base == "" {
		base = "/api"
	}

	return c.Addr + base + path
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	return json.Unmarshal(env.Data, out)
}

// checkStatus consumes the body of a failed response.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		apiErr.Message = env.Message
		apiErr.Fields = env.Errors
	}

	return apiErr
}
