package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressLine(t *testing.T) {
	tests := []struct {
		name     string
		line     []int
		expected []int
	}{
		{"empty line", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}},
		{"already packed", []int{2, 4, 0, 0}, []int{2, 4, 0, 0}},
		{"gaps closed in order", []int{0, 2, 0, 4}, []int{2, 4, 0, 0}},
		{"equal values are not merged", []int{2, 0, 2, 2}, []int{2, 2, 2, 0}},
		{"full line", []int{8, 4, 2, 2}, []int{8, 4, 2, 2}},
		{"single tile at the end", []int{0, 0, 0, 16}, []int{16, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompressLine(tt.line))
		})
	}
}

func TestCompressLine_DoesNotModifyInput(t *testing.T) {
	line := []int{0, 2, 0, 4}
	CompressLine(line)
	assert.Equal(t, []int{0, 2, 0, 4}, line)
}

func TestCompressLine_Idempotent(t *testing.T) {
	lines := [][]int{
		{0, 0, 0, 0},
		{2, 0, 2, 2},
		{0, 4, 0, 4},
		{8, 0, 0, 2},
		{2, 4, 8, 16},
	}

	for _, line := range lines {
		once := CompressLine(line)
		assert.Equal(t, once, CompressLine(once), "compress of %v", line)
	}
}

func TestMergeLine(t *testing.T) {
	tests := []struct {
		name     string
		line     []int
		expected []int
	}{
		{"no pairs", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}},
		{"first pair", []int{2, 2, 4, 0}, []int{4, 0, 4, 0}},
		{"doubled tile is not merged again", []int{2, 2, 2, 0}, []int{4, 0, 2, 0}},
		{"two pairs", []int{2, 2, 2, 2}, []int{4, 0, 4, 0}},
		{"pair in the middle", []int{4, 8, 8, 0}, []int{4, 16, 0, 0}},
		{"empty cells never merge", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeLine(tt.line))
		})
	}
}

func TestMergeLine_PreservesSum(t *testing.T) {
	lines := [][]int{
		{2, 2, 4, 0},
		{2, 2, 2, 2},
		{4, 4, 8, 8},
		{2, 4, 8, 16},
		{1024, 1024, 0, 0},
	}

	for _, line := range lines {
		merged := MergeLine(line)
		assert.Equal(t, lineSum(line), lineSum(merged), "sum of %v", line)
		assert.LessOrEqual(t, lineTiles(merged), lineTiles(line))
	}
}

func TestSlideLine(t *testing.T) {
	tests := []struct {
		name     string
		line     []int
		expected []int
	}{
		{"pair then single", []int{2, 2, 4, 0}, []int{4, 4, 0, 0}},
		{"only the first pair merges", []int{2, 0, 2, 2}, []int{4, 2, 0, 0}},
		{"four equal tiles", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}},
		{"two different pairs", []int{4, 4, 8, 8}, []int{8, 16, 0, 0}},
		{"gap between pair", []int{8, 0, 0, 8}, []int{16, 0, 0, 0}},
		{"nothing to do", []int{2, 4, 2, 4}, []int{2, 4, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SlideLine(tt.line))
		})
	}
}

func TestSlideLine_Steps(t *testing.T) {
	line := []int{2, 0, 2, 2}

	compressed := CompressLine(line)
	require.Equal(t, []int{2, 2, 2, 0}, compressed)

	merged := MergeLine(compressed)
	require.Equal(t, []int{4, 0, 2, 0}, merged)

	assert.Equal(t, []int{4, 2, 0, 0}, CompressLine(merged))
}

func TestSlideLine_Repeated(t *testing.T) {
	first := SlideLine([]int{2, 2, 4, 0})
	require.Equal(t, []int{4, 4, 0, 0}, first)

	second := SlideLine(first)
	assert.Equal(t, []int{8, 0, 0, 0}, second)

	assert.Equal(t, second, SlideLine(second))
}

func lineSum(line []int) int {
	sum := 0
	for _, v := range line {
		sum += v
	}
	return sum
}

func lineTiles(line []int) int {
	count := 0
	for _, v := range line {
		if v != Empty {
			count++
		}
	}
	return count
}
