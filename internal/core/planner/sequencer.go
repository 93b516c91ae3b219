package planner

import (
	"math"
	"slices"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// Algorithm names reported in OptimizationResult.Algorithm.
const (
	AlgorithmNone            = "none"
	AlgorithmNearestNeighbor = "nearest_neighbor"
	AlgorithmTwoOpt          = "nearest_neighbor+2opt"
)

// twoOptThreshold is the size above which the greedy tour is refined.
const twoOptThreshold = 3

// improvementEpsilon guards against accepting moves that only win on
// floating point noise.
const improvementEpsilon = 1e-9

// distanceMatrix precomputes all pairwise distances of acts.
func distanceMatrix(acts []domain.Activity) [][]float64 {
	n := len(acts)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := CalculateDistance(acts[i].Location, acts[j].Location)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// NearestNeighbor builds a greedy tour. The first stop is the activity
// closest to start, or acts[0] when start is nil. Ties go to the earlier
// activity in input order.
func NearestNeighbor(acts []domain.Activity, start *domain.GeoPoint) []domain.Activity {
	if len(acts) <= 1 {
		return slices.Clone(acts)
	}
	order := nearestNeighborOrder(acts, distanceMatrix(acts), start)
	return permute(acts, order)
}

func nearestNeighborOrder(acts []domain.Activity, dist [][]float64, start *domain.GeoPoint) []int {
	n := len(acts)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	current := 0
	if start != nil {
		best := math.Inf(1)
		for i, a := range acts {
			if d := CalculateDistance(*start, a.Location); d < best {
				best, current = d, i
			}
		}
	}
	visited[current] = true
	order = append(order, current)

	for len(order) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			// NaN distances from degenerate coordinates never win a comparison,
			// so fall back to the first unvisited activity.
			if next == -1 || dist[current][j] < best {
				next, best = j, dist[current][j]
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// TwoOpt refines an open path by reversing sub-paths while that shortens
// it. The first stop stays in place. When maxLegKm is positive, moves that
// would create a leg longer than maxLegKm are rejected. The result is never
// longer than path.
func TwoOpt(path []domain.Activity, maxLegKm float64) []domain.Activity {
	if len(path) < 3 {
		return slices.Clone(path)
	}
	order := make([]int, len(path))
	for i := range order {
		order[i] = i
	}
	order = twoOptOrder(order, distanceMatrix(path), maxLegKm)
	return permute(path, order)
}

func twoOptOrder(order []int, dist [][]float64, maxLegKm float64) []int {
	n := len(order)
	tooLong := func(d float64) bool { return maxLegKm > 0 && d > maxLegKm }

	for improved := true; improved; {
		improved = false
		for i := 0; i < n-2; i++ {
			for j := i + 2; j < n; j++ {
				a, b, c := order[i], order[i+1], order[j]

				// Reversing order[i+1..j] swaps edge (a,b) for (a,c) and, unless
				// the segment reaches the end of the path, edge (c,d) for (b,d).
				delta := dist[a][c] - dist[a][b]
				if tooLong(dist[a][c]) {
					continue
				}
				if j < n-1 {
					d := order[j+1]
					if tooLong(dist[b][d]) {
						continue
					}
					delta += dist[b][d] - dist[c][d]
				}
				if delta < -improvementEpsilon {
					slices.Reverse(order[i+1 : j+1])
					improved = true
				}
			}
		}
	}
	return order
}

// Sequence orders acts for the shortest walk through them: nearest
// neighbor for small inputs, refined by 2-opt above three stops. The input
// is never mutated and the result is a permutation of it.
func Sequence(acts []domain.Activity, start *domain.GeoPoint, maxLegKm float64) ([]domain.Activity, string) {
	if len(acts) <= 1 {
		return slices.Clone(acts), AlgorithmNone
	}
	dist := distanceMatrix(acts)
	order := nearestNeighborOrder(acts, dist, start)
	if len(acts) <= twoOptThreshold {
		return permute(acts, order), AlgorithmNearestNeighbor
	}
	order = twoOptOrder(order, dist, maxLegKm)
	return permute(acts, order), AlgorithmTwoOpt
}

func permute(acts []domain.Activity, order []int) []domain.Activity {
	out := make([]domain.Activity, len(order))
	for i, idx := range order {
		out[i] = acts[idx]
	}
	return out
}
