// Package simplify implements Ramer-Douglas-Peucker polyline simplification:
// a stack-safe iterative variant for general use, and a chunked variant with
// progress reporting for multi-million-vertex inputs. Both guarantee every
// dropped point lies within epsilon of the kept polyline, and always keep
// the first and last point.
package simplify

import v3 "github.com/deadsy/dxf2gltf/vec/v3"

//-----------------------------------------------------------------------------

// span is a (start, end) index pair pending a farthest-point search.
type span struct{ s, e int }

// Simplify reduces points to a subsequence that always includes the first
// and last point, and guarantees every removed point lies within epsilon
// perpendicular distance of the kept polyline. It never recurses: a work
// stack stands in for the call stack, so inputs of any size are safe.
func Simplify(points []v3.Vec, epsilon float64) []v3.Vec {
	n := len(points)
	if n <= 2 {
		out := make([]v3.Vec, n)
		copy(out, points)
		return out
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s, e := top.s, top.e
		if e <= s+1 {
			continue
		}

		farIdx := -1
		farDist := 0.0
		a, b := points[s], points[e]
		for i := s + 1; i < e; i++ {
			d := v3.PerpendicularDistance(points[i], a, b)
			if d > farDist {
				farDist = d
				farIdx = i
			}
		}

		if farDist > epsilon {
			keep[farIdx] = true
			stack = append(stack, span{s, farIdx}, span{farIdx, e})
		}
	}

	out := make([]v3.Vec, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

//-----------------------------------------------------------------------------

const (
	// DefaultChunkSize is the chunk size used by SimplifyChunked.
	DefaultChunkSize = 100000
	// maxOverlap bounds chunk overlap so stitching always has enough
	// context to find the true farthest point near a chunk boundary.
	maxOverlap = 1000
)

// SimplifyChunked simplifies very large point sequences (len(points) >
// chunk*2) by splitting them into overlapping chunks, simplifying each
// independently, and stitching the results together, dropping the
// duplicate seam point of every chunk after the first. progress, if
// non-nil, is called synchronously after each chunk with
// (pointsProcessed, totalPoints). For len(points) <= chunk*2, it degrades
// to a single call to Simplify (still invoking progress once, if set).
func SimplifyChunked(points []v3.Vec, epsilon float64, chunk int, progress func(processed, total int)) []v3.Vec {
	n := len(points)
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	if n <= chunk*2 {
		out := Simplify(points, epsilon)
		if progress != nil {
			progress(n, n)
		}
		return out
	}

	overlap := chunk / 10
	if overlap > maxOverlap {
		overlap = maxOverlap
	}

	var out []v3.Vec
	processed := 0
	start := 0
	first := true
	for start < n {
		end := start + chunk + overlap
		if end > n {
			end = n
		}

		simplified := Simplify(points[start:end], epsilon)

		if first {
			out = append(out, simplified...)
			first = false
		} else {
			// Drop the duplicate seam point: the chunk's first kept point
			// coincides with the previous chunk's last.
			if len(simplified) > 0 {
				out = append(out, simplified[1:]...)
			}
		}

		processed += end - start
		if progress != nil {
			progress(min(processed, n), n)
		}

		if end >= n {
			break
		}
		start += chunk
	}

	// Guarantee the true last point of the input survives, even if the
	// final chunk's epsilon pass dropped it for some reason.
	if len(out) == 0 || out[len(out)-1] != points[n-1] {
		out = append(out, points[n-1])
	}

	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
