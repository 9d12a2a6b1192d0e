package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type info struct {
	Title  string  `json:"title" validate:"required"`
	Author *string `json:"author" validate:"omitempty,notblank"`
}

type payload struct {
	Info *info `json:"content-info" validate:"required"`
}

func TestStruct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(payload{Info: &info{Title: "Hi"}}))

	err := v.Struct(payload{})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"content-info": "content-info is required"}, verr.Fields)

	blank := "  "
	err = v.Struct(payload{Info: &info{Author: &blank}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"content-info.title":  "title is required",
		"content-info.author": "author must not be blank",
	}, verr.Fields)
	assert.Equal(t,
		"validation failed: content-info.author: author must not be blank, content-info.title: title is required",
		verr.Error())
}

type record struct {
	Slug string `json:"slug" validate:"omitempty,slug"`
}

func TestSlugTag(t *testing.T) {
	v := New()

	for _, ok := range []string{"", "hello-world", "top-10"} {
		assert.NoError(t, v.Struct(record{Slug: ok}), ok)
	}

	for _, bad := range []string{"Hello-World", "double--hyphen", "-leading", "with space"} {
		err := v.Struct(record{Slug: bad})
		var verr *Error
		require.ErrorAs(t, err, &verr, bad)
		assert.Equal(t, map[string]string{
			"slug": "slug must contain only lowercase letters, numbers and hyphens",
		}, verr.Fields, bad)
	}
}
