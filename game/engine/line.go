package engine

// CompressLine moves every tile to the front of the line, keeping their order,
// and pads the rest with empty cells. It never merges.
func CompressLine(line []int) []int {
	out := make([]int, len(line))
	i := 0
	for _, value := range line {
		if value != Empty {
			out[i] = value
			i++
		}
	}
	return out
}

// MergeLine combines equal neighbours in a compressed line in one left to
// right pass. The left tile doubles, the right one empties, and the scan
// resumes after the pair, so a tile merges at most once. The result needs
// another CompressLine to close the gaps.
func MergeLine(line []int) []int {
	out := append([]int(nil), line...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] != Empty && out[i] == out[i+1] {
			out[i] *= 2
			out[i+1] = Empty
			i++
		}
	}
	return out
}

// SlideLine slides a line toward its start: compress, merge, compress.
func SlideLine(line []int) []int {
	return CompressLine(MergeLine(CompressLine(line)))
}

// reverseLine returns a reversed copy of the line
func reverseLine(line []int) []int {
	out := make([]int, len(line))
	for i, value := range line {
		out[len(line)-1-i] = value
	}
	return out
}
