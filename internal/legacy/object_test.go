package legacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

func TestCategoryFromType(t *testing.T) {
	cases := []struct {
		in   byte
		want legacy.Category
	}{
		{0, legacy.CategoryRide},
		{1, legacy.CategorySmallScenery},
		{2, legacy.CategoryLargeScenery},
		{3, legacy.CategoryWall},
		{4, legacy.CategoryFootpathBanner},
		{5, legacy.CategoryFootpath},
		{6, legacy.CategoryFootpathItem},
		{7, legacy.CategorySceneryGroup},
		{8, legacy.CategoryParkEntrance},
		{9, legacy.CategoryWater},
		{10, legacy.CategoryOther},
		{15, legacy.CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, legacy.CategoryFromType(tc.in), "type nibble %d", tc.in)
	}
}

func TestCategory_TypeTag(t *testing.T) {
	assert.Equal(t, "ride", legacy.CategoryRide.TypeTag())
	assert.Equal(t, "scenery_small", legacy.CategorySmallScenery.TypeTag())
	assert.Equal(t, "footpath_item", legacy.CategoryFootpathItem.TypeTag())
	assert.Equal(t, "other", legacy.CategoryOther.TypeTag())
}

func TestProvenance_Tags(t *testing.T) {
	cases := []struct {
		in   byte
		want string
	}{
		{8, "rct2"},
		{1, "rct2.ww"},
		{2, "rct2.tt"},
		{4, "rct1"},
		{0, "other"},
		{7, "other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, legacy.ProvenanceFromSourceGame(tc.in).Tag(), "source nibble %d", tc.in)
	}
}
