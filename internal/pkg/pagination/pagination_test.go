package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, target string) *Params {
	t.Helper()

	var got *Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	return got
}

func TestGetParams(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", 1, DefaultLimit, 0},
		{"explicit page and limit", "/?page=3&limit=10", 3, 10, 20},
		{"zero page falls back", "/?page=0", 1, DefaultLimit, 0},
		{"negative limit falls back", "/?limit=-5", 1, DefaultLimit, 0},
		{"limit capped", "/?limit=500", 1, MaxLimit, 0},
		{"garbage values fall back", "/?page=abc&limit=xyz", 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsFor(t, tt.target)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestGetMetaBoundaries(t *testing.T) {
	first := GetMeta(&Params{Page: 1, Limit: 10}, 30)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := GetMeta(&Params{Page: 3, Limit: 10}, 30)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	empty := GetMeta(&Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}
	resp := NewResponse(data, &Params{Page: 1, Limit: 20}, 2)

	assert.Equal(t, data, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}
