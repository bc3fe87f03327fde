package export_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leicestersquare/OpenGraphics/internal/export"
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

func TestMapProperties_Ride(t *testing.T) {
	obj := &legacy.Object{
		Category: legacy.CategoryRide,
		Ride:     &legacy.RideData{Types: [3]uint8{2, 0xFF, 0xFF}, MinCarsPerTrain: 1, MaxCarsPerTrain: 6},
	}

	data, err := json.Marshal(export.MapProperties(obj, export.VariantNone))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":[2],"minCarsPerTrain":1,"maxCarsPerTrain":6}`, string(data))
}

func TestMapProperties_FootpathVariants(t *testing.T) {
	obj := footpathObject(true, false, 168)
	obj.Footpath.SupportFlags = 1

	surface, err := json.Marshal(export.MapProperties(obj, export.VariantFootpathSurface))
	require.NoError(t, err)
	assert.JSONEq(t, `{"supportFlags":1,"isQueue":false}`, string(surface))

	queue, err := json.Marshal(export.MapProperties(obj, export.VariantFootpathQueue))
	require.NoError(t, err)
	assert.JSONEq(t, `{"supportFlags":1,"isQueue":true}`, string(queue))

	railings, err := json.Marshal(export.MapProperties(obj, export.VariantFootpathRailings))
	require.NoError(t, err)
	assert.JSONEq(t, `{"supportFlags":1,"poleSupports":true,"supportImages":false}`, string(railings))
}

func TestMapProperties_Generic(t *testing.T) {
	obj := &legacy.Object{Category: legacy.CategoryWall, Flags: 0x23}
	data, err := json.Marshal(export.MapProperties(obj, export.VariantNone))
	require.NoError(t, err)
	assert.JSONEq(t, `{"legacyFlags":35}`, string(data))
}
