package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const usersPage = `{
	"page": 2,
	"per_page": 6,
	"total": 12,
	"total_pages": 2,
	"data": [
		{"id": 7, "email": "michael.lawson@reqres.in", "first_name": "Michael", "last_name": "Lawson", "avatar": null},
		{"id": 8, "email": "lindsay.ferguson@reqres.in", "first_name": "Lindsay", "last_name": "Ferguson"}
	],
	"odd.key": {"a*b": 1, "#": 2}
}`

func TestResolve(t *testing.T) {
	body := gjson.Parse(usersPage)

	tests := []struct {
		name   string
		path   string
		want   any
		exists bool
	}{
		{name: "top-level number", path: "page", want: float64(2), exists: true},
		{name: "indexed field", path: "data[0].first_name", want: "Michael", exists: true},
		{name: "second element", path: "data[1].first_name", want: "Lindsay", exists: true},
		{name: "explicit null", path: "data[0].avatar", want: nil, exists: true},
		{name: "missing field", path: "data[0].missing_field", want: nil, exists: false},
		{name: "index out of range", path: "data[5].id", want: nil, exists: false},
		{name: "missing top-level key", path: "nope", want: nil, exists: false},
		{name: "dot always separates segments", path: "odd.key", want: nil, exists: false},
		{name: "wildcard chars are literal", path: "data[0].first_*", want: nil, exists: false},
		{name: "malformed path", path: "data[x]", want: nil, exists: false},
		{name: "index on an object", path: "data[0][0]", want: nil, exists: false},
		{name: "numeric key on an array", path: "data.0", want: nil, exists: false},
		{name: "key on a scalar", path: "page.value", want: nil, exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(body, tt.path)
			assert.Equal(t, tt.exists, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NumericKeyOnObject(t *testing.T) {
	body := gjson.Parse(`{"obj": {"0": "zero"}}`)

	_, ok := Resolve(body, "obj[0]")
	assert.False(t, ok)

	got, ok := Resolve(body, "obj.0")
	require.True(t, ok)
	assert.Equal(t, "zero", got)
}

func TestResolve_EmptyPathReturnsDocument(t *testing.T) {
	got, ok := Resolve(gjson.Parse(`[1,2]`), "")
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2)}, got)
}

func TestResolve_LeadingIndex(t *testing.T) {
	got, ok := Resolve(gjson.Parse(`[{"id": 1}, {"id": 2}]`), "[1].id")
	require.True(t, ok)
	assert.Equal(t, float64(2), got)
}

func TestResolve_NoDocument(t *testing.T) {
	_, ok := Resolve(gjson.Result{}, "page")
	assert.False(t, ok)

	_, ok = ResolveBytes(nil, "")
	assert.False(t, ok)

	_, ok = ResolveBytes([]byte("<html>"), "page")
	assert.False(t, ok)
}

func TestResolve_Idempotent(t *testing.T) {
	body := gjson.Parse(usersPage)
	for _, path := range []string{"data[0].email", "data[0].missing_field", "total"} {
		v1, ok1 := Resolve(body, path)
		v2, ok2 := Resolve(body, path)
		assert.Equal(t, v1, v2, path)
		assert.Equal(t, ok1, ok2, path)
	}
}

func TestToGJSON(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data[0].first_name", "data.0.first_name"},
		{"items[0].tags[1]", "items.0.tags.1"},
		{"[0].id", "0.id"},
		{"a*b", `a\*b`},
		{"@this", `\@this`},
		{"", ""},
	}

	for _, tt := range tests {
		got, err := ToGJSON(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestValid(t *testing.T) {
	valid := []string{"", "page", "data[0].first_name", "[0]", "a[1][2].b", "total_pages"}
	for _, p := range valid {
		assert.NoError(t, Valid(p), p)
	}

	invalid := []string{".page", "page.", "a..b", "data[", "data]", "data[-1]", "data[x]", "data[01]", "data.[0]", "data[0]x"}
	for _, p := range invalid {
		assert.Error(t, Valid(p), p)
	}
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(Missing))
	assert.False(t, IsMissing(nil))
	assert.Equal(t, "<missing>", Missing.String())
}
