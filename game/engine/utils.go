package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed draws a seed from crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a deterministic random source for seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// MaxTile returns the largest value on the grid
func MaxTile(grid Grid) int {
	largest := Empty
	for _, row := range grid {
		for _, value := range row {
			if value > largest {
				largest = value
			}
		}
	}
	return largest
}

// TileSum returns the sum of all tile values
func TileSum(grid Grid) int {
	sum := 0
	for _, row := range grid {
		for _, value := range row {
			sum += value
		}
	}
	return sum
}

// CountTiles counts the non-empty cells of the grid
func CountTiles(grid Grid) int {
	count := 0
	for _, row := range grid {
		for _, value := range row {
			if value != Empty {
				count++
			}
		}
	}
	return count
}
