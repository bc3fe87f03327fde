package export

import (
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// Property shapes per descriptor kind. The mapping from the legacy
// property block to these is a stable contract: pure data shuffling,
// delegated per category.

type rideProperties struct {
	Types           []int `json:"type"`
	MinCarsPerTrain int   `json:"minCarsPerTrain"`
	MaxCarsPerTrain int   `json:"maxCarsPerTrain"`
}

type footpathSurfaceProperties struct {
	SupportFlags int  `json:"supportFlags"`
	IsQueue      bool `json:"isQueue"`
}

type footpathRailingsProperties struct {
	SupportFlags     int  `json:"supportFlags"`
	HasPoleSupports  bool `json:"poleSupports"`
	HasSupportImages bool `json:"supportImages"`
}

type genericProperties struct {
	LegacyFlags int `json:"legacyFlags"`
}

// MapProperties maps an object's decoded property block into the
// descriptor property structure for the given variant.
func MapProperties(obj *legacy.Object, variant Variant) any {
	switch variant {
	case VariantFootpathSurface, VariantFootpathQueue:
		return footpathSurfaceProperties{
			SupportFlags: int(obj.Footpath.SupportFlags),
			IsQueue:      variant == VariantFootpathQueue,
		}
	case VariantFootpathRailings:
		return footpathRailingsProperties{
			SupportFlags:     int(obj.Footpath.SupportFlags),
			HasPoleSupports:  obj.Footpath.HasPoleSupports,
			HasSupportImages: obj.Footpath.HasSupportImages,
		}
	}

	switch obj.Category {
	case legacy.CategoryRide:
		types := make([]int, 0, len(obj.Ride.Types))
		for _, t := range obj.Ride.Types {
			if t != 0xFF {
				types = append(types, int(t))
			}
		}
		return rideProperties{
			Types:           types,
			MinCarsPerTrain: int(obj.Ride.MinCarsPerTrain),
			MaxCarsPerTrain: int(obj.Ride.MaxCarsPerTrain),
		}
	case legacy.CategoryFootpath:
		return footpathSurfaceProperties{
			SupportFlags: int(obj.Footpath.SupportFlags),
		}
	default:
		return genericProperties{LegacyFlags: int(obj.Flags)}
	}
}
