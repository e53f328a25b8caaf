package util

import (
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformSlice(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, TransformSlice([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, TransformSlice([]int(nil), strconv.Itoa))
}

func TestFilterSlice(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	even := FilterSlice(in, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
	assert.Nil(t, FilterSlice(in, func(int) bool { return false }))
}

func TestCanonicalMapIter(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	var keys []string
	var values []int
	for k, v := range CanonicalMapIter(m) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, []int{1, 2, 3}, values)

	var first []string
	for k := range CanonicalMapIter(m) {
		first = append(first, k)
		break
	}
	assert.Equal(t, []string{"a"}, first)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLogLevel(tt.name)
			assert.Equal(t, tt.want, level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
