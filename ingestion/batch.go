package ingestion

// window is the half-open range [start, end) of chunk positions.
type window struct {
	start, end int
}

// windows partitions n items into consecutive windows of at most size items.
// The last window holds the remainder.
func windows(n, size int) []window {
	if n <= 0 || size <= 0 {
		return nil
	}
	out := make([]window, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, window{start: start, end: end})
	}
	return out
}
