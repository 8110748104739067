package result

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func TestConstructors(t *testing.T) {
	assert.True(t, Ok(1).IsOk())
	assert.False(t, Err[int](errBoom).IsOk())

	r := Of(strconv.Atoi("12"))
	v, err := r.Get()
	assert.NoError(t, err)
	assert.Equal(t, 12, v)

	r = Of(strconv.Atoi("x"))
	assert.False(t, r.IsOk())
	assert.Equal(t, 0, r.Value)
	assert.Equal(t, 7, r.ValueOr(7))
}

func TestProcessCombinators(t *testing.T) {
	double := func(v int) int { return v * 2 }

	tests := []struct {
		name    string
		got     Result[int]
		want    int
		wantErr error
	}{
		{"map ok", Map(Ok(2), double), 4, nil},
		{"map err", Map(Err[int](errBoom), double), 0, errBoom},
		{"try map ok", TryMap(Ok("5"), strconv.Atoi), 5, nil},
		{"try map fails", TryMap(Ok("five"), strconv.Atoi), 0, strconv.ErrSyntax},
		{"and then ok", AndThen(Ok(3), func(v int) Result[int] { return Ok(v + 1) }), 4, nil},
		{"and then skips on err", AndThen(Err[int](errBoom), func(v int) Result[int] { return Ok(v + 1) }), 0, errBoom},
		{"then sees errors", Then(Err[int](errBoom), func(r Result[int]) Result[int] { return Ok(42) }), 42, nil},
		{"filter keeps", Filter(Ok(3), func(v int) bool { return v > 1 }), 3, nil},
		{"filter rejects", Filter(Ok(0), func(v int) bool { return v > 1 }), 0, ErrFiltered},
		{"filter passes errors", Filter(Err[int](errBoom), func(int) bool { return true }), 0, errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr != nil {
				assert.ErrorIs(t, tt.got.Err, tt.wantErr)
				return
			}
			assert.NoError(t, tt.got.Err)
			assert.Equal(t, tt.want, tt.got.Value)
		})
	}
}

func TestInspect(t *testing.T) {
	var seen []int
	record := func(v int) { seen = append(seen, v) }

	Inspect(Ok(1), record)
	Inspect(Err[int](errBoom), record)
	assert.Equal(t, []int{1}, seen)
}

func TestDefaultCombinators(t *testing.T) {
	assert.Equal(t, Ok(9), Or(Err[int](errBoom), Ok(9)))
	assert.Equal(t, Ok(1), Or(Ok(1), Ok(9)))

	recovered := OrElse(Err[int](errBoom), func(err error) Result[int] { return Ok(len(err.Error())) })
	assert.Equal(t, Ok(4), recovered)
	assert.Equal(t, Ok(1), OrElse(Ok(1), func(error) Result[int] { return Ok(0) }))

	wrapped := MapErr(Err[int](errBoom), func(err error) error { return errors.Join(errors.New("fetch"), err) })
	assert.ErrorIs(t, wrapped.Err, errBoom)
	assert.Equal(t, Ok(1), MapErr(Ok(1), func(error) error { return errBoom }))
}
