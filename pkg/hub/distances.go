package hub

import "math"

// distances keeps travel distances to other nodes in insertion order.
type distances struct {
	keys []int
	vals map[int]float64
}

func newDistances(capacity int) *distances {
	return &distances{keys: make([]int, 0, capacity), vals: make(map[int]float64, capacity)}
}

func (d *distances) put(k int, v float64) {
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.vals[k] = v
}

func (d *distances) get(k int) (float64, bool) {
	v, ok := d.vals[k]
	return v, ok
}

func (d *distances) len() int {
	return len(d.keys)
}

func (d *distances) each(fn func(k int, v float64)) {
	for _, k := range d.keys {
		fn(k, d.vals[k])
	}
}

// node is a hub or a road segment location.
type node struct {
	hubs   *distances
	nearby *distances
}

func newNode() *node {
	return &node{hubs: newDistances(8), nearby: newDistances(8)}
}

// hubDistanceTo is the distance from a hub to a location: its own nearby entry or the
// shortest detour through another hub that has one.
func (s *Segmentation) hubDistanceTo(hub int, to int) float64 {
	h := s.hubNodes[hub]
	if d, ok := h.nearby.get(to); ok {
		return d
	}
	shortest := math.MaxFloat64
	h.hubs.each(func(other int, d float64) {
		if nd, ok := s.hubNodes[other].nearby.get(to); ok && d+nd < shortest {
			shortest = d + nd
		}
	})
	return shortest
}

// distanceTo is the distance between two locations the segmented matrix encodes.
func (s *Segmentation) distanceTo(from, to int) float64 {
	f := s.locationNodes[from]
	if d, ok := f.nearby.get(to); ok {
		return d
	}
	shortest := math.MaxFloat64
	f.hubs.each(func(hub int, d float64) {
		if hd := s.hubDistanceTo(hub, to); hd != math.MaxFloat64 && d+hd < shortest {
			shortest = d + hd
		}
	})
	return shortest
}
