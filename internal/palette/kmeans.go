// Package palette extracts representative colors from pixel samples using
// k-means clustering.
//
// Distances are L1 (Manhattan) in RGB space, for both the assignment step and
// the convergence check. Randomness only enters through seed selection and is
// taken from an injectable *rand.Rand so results are reproducible.
package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ErrInvalidArgument is returned for malformed clustering input.
var ErrInvalidArgument = errors.New("invalid argument")

// Color3 is an 8-bit RGB color without alpha.
type Color3 struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Cluster is a representative color and the number of samples assigned to it.
type Cluster struct {
	Color Color3 `json:"color"`
	Count int    `json:"count"`
}

// Options controls a clustering run.
type Options struct {
	// K is the number of clusters to produce. Must be at least 1.
	K int

	// Epsilon stops the iteration once the largest centroid drift (L1)
	// of an iteration falls below it. Must not be negative.
	Epsilon float64

	// Sort orders the result by descending member count. Equal counts
	// keep their seed order.
	Sort bool

	// MaxIterations caps the number of iterations. Zero means no cap.
	MaxIterations int

	// Workers shards the assignment step. Values below 2 run it inline.
	Workers int

	// Rand supplies the seed selection. A time-seeded source is used when nil.
	Rand *rand.Rand
}

type centroid [3]float64

// ClusterColors groups pixels into opts.K clusters and returns their centroids,
// floored to 8-bit channels, with member counts.
//
// The result always has exactly opts.K entries and the counts sum to
// len(pixels). A cluster that ends up without members keeps the centroid it
// had when it was last populated (or its seed color).
//
// Returns an error wrapping ErrInvalidArgument when K < 1, Epsilon < 0, or
// there are fewer pixels than clusters.
func ClusterColors(pixels []Color3, opts Options) ([]Cluster, error) {
	if opts.K < 1 {
		return nil, fmt.Errorf("cluster count %d must be positive: %w", opts.K, ErrInvalidArgument)
	}
	if opts.Epsilon < 0 || math.IsNaN(opts.Epsilon) {
		return nil, fmt.Errorf("epsilon %g must not be negative: %w", opts.Epsilon, ErrInvalidArgument)
	}
	if len(pixels) < opts.K {
		return nil, fmt.Errorf("%d pixels cannot seed %d clusters: %w", len(pixels), opts.K, ErrInvalidArgument)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	centroids := seed(pixels, opts.K, rng)
	assign := newAssigner(pixels, opts.Workers)

	var counts []int
	for iter := 1; ; iter++ {
		var sums []centroid
		sums, counts = assign.run(centroids)

		diff := 0.0
		for i := range centroids {
			if counts[i] == 0 {
				continue
			}
			n := float64(counts[i])
			next := centroid{sums[i][0] / n, sums[i][1] / n, sums[i][2] / n}
			diff = math.Max(diff, distance(centroids[i], next))
			centroids[i] = next
		}

		if diff < opts.Epsilon || diff == 0 {
			break
		}
		if opts.MaxIterations > 0 && iter >= opts.MaxIterations {
			break
		}
	}

	clusters := make([]Cluster, opts.K)
	for i, c := range centroids {
		clusters[i] = Cluster{Color: c.floor(), Count: counts[i]}
	}
	if opts.Sort {
		sort.SliceStable(clusters, func(i, j int) bool {
			return clusters[i].Count > clusters[j].Count
		})
	}
	return clusters, nil
}

// seed picks k distinct pixel indices uniformly at random.
func seed(pixels []Color3, k int, rng *rand.Rand) []centroid {
	used := make(map[int]bool, k)
	centroids := make([]centroid, 0, k)
	for len(centroids) < k {
		idx := rng.Intn(len(pixels))
		if used[idx] {
			continue
		}
		used[idx] = true
		centroids = append(centroids, pixels[idx].centroid())
	}
	return centroids
}

// nearest returns the index of the closest centroid; the first one wins ties.
func nearest(p centroid, centroids []centroid) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := distance(p, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func distance(a, b centroid) float64 {
	return math.Abs(a[0]-b[0]) + math.Abs(a[1]-b[1]) + math.Abs(a[2]-b[2])
}

func (c Color3) centroid() centroid {
	return centroid{float64(c.R), float64(c.G), float64(c.B)}
}

func (c centroid) floor() Color3 {
	return Color3{R: channel(c[0]), G: channel(c[1]), B: channel(c[2])}
}

func channel(v float64) uint8 {
	v = math.Floor(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// assigner runs the assignment step, optionally split across goroutines.
// Each shard accumulates its own sums; shards are merged in order so the
// totals do not depend on scheduling.
type assigner struct {
	pixels []centroid
	shards [][2]int
}

func newAssigner(pixels []Color3, workers int) *assigner {
	points := make([]centroid, len(pixels))
	for i, p := range pixels {
		points[i] = p.centroid()
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(points) {
		workers = len(points)
	}
	size := (len(points) + workers - 1) / workers
	shards := make([][2]int, 0, workers)
	for start := 0; start < len(points); start += size {
		shards = append(shards, [2]int{start, min(start+size, len(points))})
	}
	return &assigner{pixels: points, shards: shards}
}

func (a *assigner) run(centroids []centroid) ([]centroid, []int) {
	k := len(centroids)
	sums := make([][]centroid, len(a.shards))
	counts := make([][]int, len(a.shards))

	work := func(s int) {
		sums[s] = make([]centroid, k)
		counts[s] = make([]int, k)
		for _, p := range a.pixels[a.shards[s][0]:a.shards[s][1]] {
			n := nearest(p, centroids)
			sums[s][n][0] += p[0]
			sums[s][n][1] += p[1]
			sums[s][n][2] += p[2]
			counts[s][n]++
		}
	}

	if len(a.shards) == 1 {
		work(0)
	} else {
		var wg sync.WaitGroup
		for s := range a.shards {
			wg.Add(1)
			go func(s int) {
				defer wg.Done()
				work(s)
			}(s)
		}
		wg.Wait()
	}

	totalSums := make([]centroid, k)
	totalCounts := make([]int, k)
	for s := range a.shards {
		for i := 0; i < k; i++ {
			totalSums[i][0] += sums[s][i][0]
			totalSums[i][1] += sums[s][i][1]
			totalSums[i][2] += sums[s][i][2]
			totalCounts[i] += counts[s][i]
		}
	}
	return totalSums, totalCounts
}
