package database

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentMapFuncWithError(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	for _, concurrency := range []int{-1, 0, 1, 3} {
		t.Run(strconv.Itoa(concurrency), func(t *testing.T) {
			outputs, err := ConcurrentMapFuncWithError(inputs, concurrency, func(i int) (string, error) {
				return strconv.Itoa(i * 10), nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"10", "20", "30", "40", "50", "60", "70", "80"}, outputs)
		})
	}
}

func TestConcurrentMapFuncWithErrorFails(t *testing.T) {
	errOdd := errors.New("odd")
	outputs, err := ConcurrentMapFuncWithError([]int{2, 3, 4}, 2, func(i int) (int, error) {
		if i%2 == 1 {
			return 0, errOdd
		}
		return i, nil
	})
	assert.ErrorIs(t, err, errOdd)
	assert.Nil(t, outputs)
}
