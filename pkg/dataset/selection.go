package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewLocations = errors.New("location list is too small")
	ErrDepotNotFound   = errors.New("depot not found")
)

// Spread keeps n locations spread evenly over the list. A location is kept when the
// integer part of a counter, starting at n and decremented by n/len per location, drops.
func Spread(locations []Location, n int) ([]Location, error) {
	if n > len(locations) {
		return nil, fmt.Errorf("%w: %d locations requested, %d available", ErrTooFewLocations, n, len(locations))
	}
	decrement := float64(n) / float64(len(locations))
	return spread(locations, float64(n), decrement, n), nil
}

func spread(locations []Location, selection, decrement float64, capacity int) []Location {
	selected := make([]Location, 0, capacity)
	for _, loc := range locations {
		newSelection := selection - decrement
		if int(newSelection) < int(selection) {
			selected = append(selected, loc)
		}
		selection = newSelection
	}
	return selected
}

// SelectWithDepots moves the depots to the front and spreads the customers over the rest.
// The result always has n locations.
func SelectWithDepots(all []Location, n, depots int, source DataSource) ([]Location, error) {
	if n > len(all) {
		return nil, fmt.Errorf("%w: %d locations requested, %d available", ErrTooFewLocations, n, len(all))
	}
	if depots < 1 || depots > MaxDepots || depots >= n {
		return nil, fmt.Errorf("%w: %d depots for %d locations", ErrUnsupportedDepotCount, depots, n)
	}

	rest := make([]Location, len(all))
	copy(rest, all)
	selected := make([]Location, 0, n)

	if source.HasDepotNames() {
		names, err := source.DepotNames(depots)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			idx := -1
			for i, loc := range rest {
				if loc.Name == name {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w: %s", ErrDepotNotFound, name)
			}
			selected = append(selected, rest[idx])
			rest = append(rest[:idx], rest[idx+1:]...)
		}
	} else {
		selected = append(selected, rest[:depots]...)
		rest = rest[depots:]
	}

	customers := n - depots
	selection := float64(customers)
	decrement := float64(customers) / float64(len(rest))
	if depots == 1 {
		// single depot instances keep the numbering of the datasets generated before multi depot support
		decrement = float64(n) / float64(len(rest)+depots)
		selection = float64(n) - decrement
	}
	selected = append(selected, spread(rest, selection, decrement, customers)...)

	if len(selected) != n {
		return nil, fmt.Errorf("selected %d locations instead of %d", len(selected), n)
	}
	return selected, nil
}

// Renumber returns a copy with ids 1..n in list order.
func Renumber(locations []Location) []Location {
	out := make([]Location, len(locations))
	for i, loc := range locations {
		loc.ID = int64(i + 1)
		out[i] = loc
	}
	return out
}
