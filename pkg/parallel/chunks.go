package parallel

// Chunk is the half-open index range [Lo, Hi).
type Chunk struct {
	Lo, Hi int
}

// Split divides n items into at most parts contiguous chunks whose sizes
// differ by at most one. Empty chunks are never returned.
func Split(n, parts int) []Chunk {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	chunks := make([]Chunk, 0, parts)
	size, extra := n/parts, n%parts
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		chunks = append(chunks, Chunk{Lo: lo, Hi: hi})
		lo = hi
	}
	return chunks
}

// ForEachChunk splits n items across workers and calls fn once per chunk on
// the pool. The chunk index passed to fn is stable for a given n and
// workers, so callers can merge per-chunk results in a fixed order.
func ForEachChunk(n, workers int, fn func(index int, c Chunk)) error {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	chunks := Split(n, workers)
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) == 1 {
		fn(0, chunks[0])
		return nil
	}

	pool := NewWorkerPool(len(chunks))
	for i, c := range chunks {
		pool.Submit(func() { fn(i, c) })
	}
	return pool.Wait()
}
