package analysis

// BatchSize is the number of traces scored per model call.
const BatchSize = 5

// Partition splits items into consecutive groups of size; the last group may
// be smaller.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
