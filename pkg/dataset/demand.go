package dataset

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
)

const (
	demandSeed = 37

	// depots are open from 7:00 until 19:00
	minReadyTime            = 7 * 60 * 60
	maxWindowTimeInHalfHour = 12 * 2
	maxDueTime              = minReadyTime + maxWindowTimeInHalfHour*30*60
	minWindowTimeInHalfHour = 4 * 2
	customerServiceDuration = 5 * 60
)

var ErrCapacityTooSmall = errors.New("capacity too small for a positive demand")

// Demand is one DEMAND_SECTION line. The time window fields are only written for time windowed instances.
type Demand struct {
	ID              int64
	Demand          int
	ReadyTime       int
	DueTime         int
	ServiceDuration int
}

// MaximumDemand is twice the average demand, which is 2/3 of the fleet capacity spread over the locations.
func MaximumDemand(n, vehicles, capacity int) (int, error) {
	maximumDemand := (4 * vehicles * capacity) / (n * 3)
	if maximumDemand < 1 {
		return 0, fmt.Errorf("%w: %d vehicles of capacity %d for %d locations", ErrCapacityTooSmall, vehicles, capacity, n)
	}
	return maximumDemand, nil
}

// GenerateDemands draws demands and time windows from a seeded generator, so the same
// instance always gets the same demands. The first depots locations are the depots.
func GenerateDemands(locations []Location, depots, vehicles, capacity int, vrpType VrpType) ([]Demand, error) {
	maximumDemand, err := MaximumDemand(len(locations), vehicles, capacity)
	if err != nil {
		return nil, err
	}

	random := util.NewJavaRandom(demandSeed)
	demands := make([]Demand, len(locations))
	for i, loc := range locations {
		d := Demand{ID: loc.ID}
		if i < depots {
			d.ReadyTime = minReadyTime
			d.DueTime = maxDueTime
		} else {
			d.Demand = int(random.NextIntn(int32(maximumDemand))) + 1
			if vrpType == TimeWindowed {
				window := minWindowTimeInHalfHour + int(random.NextIntn(minWindowTimeInHalfHour+1))
				d.ReadyTime = minReadyTime + int(random.NextIntn(int32(maxWindowTimeInHalfHour-window+1)))*30*60
				d.DueTime = d.ReadyTime + window*30*60
				d.ServiceDuration = customerServiceDuration
			}
		}
		demands[i] = d
	}
	return demands, nil
}
