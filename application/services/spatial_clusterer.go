package services

import (
	"sort"

	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// NoiseLabel marks points the density clusterer left unassigned
const NoiseLabel = -1

// SpatialClusterer groups geotagged photos by proximity. Two variants:
// a greedy running-centroid pass used for trip detection, and a
// density-based pass used for global pattern detection.
type SpatialClusterer struct {
	logger *zap.Logger
}

// NewSpatialClusterer creates a new spatial clusterer
func NewSpatialClusterer(logger *zap.Logger) *SpatialClusterer {
	return &SpatialClusterer{logger: logger}
}

// ClusterGreedy assigns each geotagged photo, in input order, to the first
// existing cluster whose running centroid lies within proximityKm, starting
// a new cluster otherwise. The result depends on input order; callers that
// need a stable outcome must pin it.
func (c *SpatialClusterer) ClusterGreedy(
	photos []*entities.Photo,
	proximityKm float64,
) [][]*entities.Photo {
	type cluster struct {
		photos []*entities.Photo
		points []valueobjects.GeoPoint
	}

	var clusters []*cluster

	for _, p := range photos {
		if !p.HasLocation() {
			continue
		}
		pt := p.Location().Point

		assigned := false
		for _, cl := range clusters {
			if valueobjects.Centroid(cl.points).DistanceKm(pt) <= proximityKm {
				cl.photos = append(cl.photos, p)
				cl.points = append(cl.points, pt)
				assigned = true
				break
			}
		}

		if !assigned {
			clusters = append(clusters, &cluster{
				photos: []*entities.Photo{p},
				points: []valueobjects.GeoPoint{pt},
			})
		}
	}

	out := make([][]*entities.Photo, 0, len(clusters))
	for _, cl := range clusters {
		out = append(out, cl.photos)
	}

	c.logger.Debug("Greedy spatial clustering complete",
		zap.Int("photos", len(photos)),
		zap.Int("clusters", len(out)),
		zap.Float64("proximityKm", proximityKm),
	)

	return out
}

// ClusterDensity labels each point with a density cluster, using a fixed
// haversine radius and minimum neighborhood size. Points in no sufficiently
// dense neighborhood get NoiseLabel. Expansion seeds are visited in a
// canonical coordinate order, so an identical point set yields identical
// labels regardless of input order.
func (c *SpatialClusterer) ClusterDensity(
	points []valueobjects.GeoPoint,
	radiusKm float64,
	minSamples int,
) []int {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = NoiseLabel
	}

	if n < minSamples {
		c.logger.Warn("Not enough coordinates for density clustering",
			zap.Int("points", n),
			zap.Int("minSamples", minSamples),
		)
		return labels
	}

	// Canonical visiting order: sort indices by coordinate so the label
	// assignment is independent of the caller's iteration order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := points[order[a]], points[order[b]]
		if pa.Latitude() != pb.Latitude() {
			return pa.Latitude() < pb.Latitude()
		}
		return pa.Longitude() < pb.Longitude()
	})

	neighborsOf := func(idx int) []int {
		var out []int
		for _, j := range order {
			if points[idx].DistanceKm(points[j]) <= radiusKm {
				out = append(out, j)
			}
		}
		return out
	}

	visited := make([]bool, n)
	nextLabel := 0

	for _, i := range order {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := neighborsOf(i)
		if len(neighbors) < minSamples {
			continue // stays noise unless a later expansion claims it
		}

		labels[i] = nextLabel

		// Expand the cluster breadth-first over density-reachable points
		queue := append([]int(nil), neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == NoiseLabel {
				labels[j] = nextLabel
			}
			if visited[j] {
				continue
			}
			visited[j] = true

			jn := neighborsOf(j)
			if len(jn) >= minSamples {
				queue = append(queue, jn...)
			}
		}

		nextLabel++
	}

	noise := 0
	for _, l := range labels {
		if l == NoiseLabel {
			noise++
		}
	}
	c.logger.Debug("Density clustering complete",
		zap.Int("points", n),
		zap.Int("clusters", nextLabel),
		zap.Int("noise", noise),
		zap.Float64("radiusKm", radiusKm),
	)

	return labels
}
