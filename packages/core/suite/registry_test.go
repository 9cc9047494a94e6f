package suite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*T, ...any) error { return nil }

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(Test{Name: "validateNumberAssertions", Run: noop}))
	require.NoError(t, reg.Register(Test{Name: "deleteUserTest", Run: noop, Tags: []string{"delete"}}))

	assert.Equal(t, 2, reg.Len())
	tests := reg.Tests()
	assert.Equal(t, "validateNumberAssertions", tests[0].Name)
	assert.Equal(t, "deleteUserTest", tests[1].Name)

	got, ok := reg.Lookup("deleteUserTest")
	require.True(t, ok)
	assert.Equal(t, []string{"delete"}, got.Tags)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Test{Name: "a", Run: noop}))

	tests := []struct {
		name string
		test Test
	}{
		{name: "empty name", test: Test{Name: "  ", Run: noop}},
		{name: "no run func", test: Test{Name: "b"}},
		{name: "duplicate", test: Test{Name: "a", Run: noop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.test)
			assert.True(t, errors.Is(err, ErrInvalidTest))
		})
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() {
		reg.MustRegister(Test{Name: "a", Run: noop}, Test{Name: "a", Run: noop})
	})
}

func TestRegistry_TestsAreCopies(t *testing.T) {
	reg := NewRegistry()
	tags := []string{"smoke"}
	reg.MustRegister(Test{Name: "a", Run: noop, Tags: tags})

	tags[0] = "changed"
	assert.Equal(t, "smoke", reg.Tests()[0].Tags[0])
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "critical", SeverityCritical.String())
	assert.Equal(t, "normal", Severity(0).String())

	s, err := ParseSeverity("Blocker")
	require.NoError(t, err)
	assert.Equal(t, SeverityBlocker, s)

	_, err = ParseSeverity("urgent")
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	args := []any{"eve.holt@reqres.in", 2, float64(3), "4", 2.5}

	s, err := StringArg(args, 0)
	require.NoError(t, err)
	assert.Equal(t, "eve.holt@reqres.in", s)

	s, err = StringArg(args, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", s)

	for i, want := range []int{2, 3, 4} {
		n, err := IntArg(args, i+1)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	_, err = IntArg(args, 4)
	assert.Error(t, err)
	_, err = IntArg(args, 0)
	assert.Error(t, err)
	_, err = StringArg(args, 9)
	assert.Error(t, err)
}
