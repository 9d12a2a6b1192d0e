package article

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/blog/internal/events"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/store/memstore"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)

	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}

	return out
}

func strp(s string) *string { return &s }

func newService(t *testing.T, opts ...Option) (*Service, *recorder) {
	t.Helper()

	rec := &recorder{}
	now := time.Date(2024, 3, 9, 10, 30, 0, 123456789, time.UTC)
	ids := 0
	opts = append([]Option{
		WithEvents(rec),
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			ids++

			return []string{"", "id-1", "id-2", "id-3"}[ids]
		}),
	}, opts...)

	return NewService(memstore.NewCollection[model.Article](), opts...), rec
}

func TestCreate(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, model.Draft{
		Title:       "Hello World",
		Description: "d",
		Keywords:    []string{},
		Author:      "A",
		Content:     "# hi",
	})
	require.NoError(t, err)

	assert.Equal(t, &model.ContentInfo{
		Title:       "Hello World",
		Description: "d",
		Keywords:    []string{},
		Slug:        "hello-world",
		UUID:        "id-1",
		CreatedAt:   time.Date(2024, 3, 9, 10, 30, 0, 123000000, time.UTC),
		Author:      "A",
	}, a.ContentInfo)
	assert.Equal(t, &model.Body{ArticleContent: "# hi"}, a.Body)

	got, err := svc.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	b, err := svc.Create(ctx, model.Draft{Title: "Hello World"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ContentInfo.UUID, b.ContentInfo.UUID, "create always mints a new identity")

	assert.Equal(t, []string{events.TypeCreated, events.TypeCreated}, rec.types())
}

func TestCreateUsesUUIDByDefault(t *testing.T) {
	svc := NewService(memstore.NewCollection[model.Article]())

	a, err := svc.Create(context.Background(), model.Draft{Title: "x"})
	require.NoError(t, err)
	assert.Len(t, a.ContentInfo.UUID, 36)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("merges supplied fields only", func(t *testing.T) {
		svc, rec := newService(t)
		orig, err := svc.Create(ctx, model.Draft{Title: "Hello World", Description: "d", Author: "A", Content: "# hi"})
		require.NoError(t, err)

		kw := []string{"go", "blog"}
		upd, err := svc.Update(ctx, "id-1", model.Patch{Title: strp("New"), Keywords: &kw})
		require.NoError(t, err)

		assert.Equal(t, "New", upd.ContentInfo.Title)
		assert.Equal(t, "new", upd.ContentInfo.Slug)
		assert.Equal(t, kw, upd.ContentInfo.Keywords)
		assert.Equal(t, orig.ContentInfo.Description, upd.ContentInfo.Description)
		assert.Equal(t, orig.ContentInfo.Author, upd.ContentInfo.Author)
		assert.Equal(t, orig.ContentInfo.UUID, upd.ContentInfo.UUID)
		assert.Equal(t, orig.ContentInfo.CreatedAt, upd.ContentInfo.CreatedAt)
		assert.Equal(t, orig.Body, upd.Body)

		got, err := svc.Get(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, upd, got)

		assert.Equal(t, []string{events.TypeCreated, events.TypeUpdated}, rec.types())
	})

	t.Run("is idempotent", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Create(ctx, model.Draft{Title: "T", Content: "c"})
		require.NoError(t, err)

		p := model.Patch{Description: strp("x"), Content: strp("y")}
		first, err := svc.Update(ctx, "id-1", p)
		require.NoError(t, err)
		second, err := svc.Update(ctx, "id-1", p)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("re-derives a malformed stored slug", func(t *testing.T) {
		articles := memstore.NewCollection[model.Article]()
		require.NoError(t, articles.Put(ctx, "legacy", model.Article{
			ContentInfo: &model.ContentInfo{Title: "Hello World", Slug: "Hello World", UUID: "legacy"},
			Body:        &model.Body{ArticleContent: "# hi"},
		}))
		svc := NewService(articles)

		upd, err := svc.Update(ctx, "legacy", model.Patch{Description: strp("d")})
		require.NoError(t, err)
		assert.Equal(t, "hello-world", upd.ContentInfo.Slug)
		assert.Equal(t, "d", upd.ContentInfo.Description)

		got, err := svc.Get(ctx, "legacy")
		require.NoError(t, err)
		assert.Equal(t, "hello-world", got.ContentInfo.Slug)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, rec := newService(t)

		_, err := svc.Update(ctx, "nope", model.Patch{Title: strp("x")})
		require.ErrorIs(t, err, store.ErrNotFound)
		assert.Empty(t, rec.types())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	_, err := svc.Create(ctx, model.Draft{Title: "Hello World"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "id-1"))

	_, err = svc.Get(ctx, "id-1")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "id-1"), store.ErrNotFound)

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	assert.Equal(t, []string{events.TypeCreated, events.TypeDeleted}, rec.types())
}

func TestEventFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)
	rec.err = errors.New("nats: timeout")

	a, err := svc.Create(ctx, model.Draft{Title: "Still Saved"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, a.ContentInfo.UUID)
	require.NoError(t, err)
}

func TestMerge(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	current := model.Article{
		ContentInfo: &model.ContentInfo{
			Title: "Hello World", Slug: "hello-world", UUID: "u", CreatedAt: created,
			Description: "d", Author: "A", Keywords: []string{"k"},
		},
		Body: &model.Body{ArticleContent: "# hi"},
	}

	t.Run("empty patch", func(t *testing.T) {
		assert.Equal(t, current, Merge("u", current, model.Patch{}))
	})

	t.Run("does not mutate current", func(t *testing.T) {
		_ = Merge("u", current, model.Patch{Title: strp("Other"), Content: strp("x")})
		assert.Equal(t, "Hello World", current.ContentInfo.Title)
		assert.Equal(t, "# hi", current.Body.ArticleContent)
	})

	t.Run("partial document", func(t *testing.T) {
		got := Merge("u", model.Article{}, model.Patch{Title: strp("Fresh Start")})
		require.True(t, got.Complete())
		assert.Equal(t, "u", got.ContentInfo.UUID)
		assert.Equal(t, "fresh-start", got.ContentInfo.Slug)
		assert.Equal(t, "", got.Body.ArticleContent)
	})
}
