package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leicestersquare/OpenGraphics/internal/export"
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
	"github.com/leicestersquare/OpenGraphics/internal/localization"
)

func entry(texts ...legacy.LocalizedText) legacy.StringEntry {
	return legacy.StringEntry{Texts: texts}
}

func text(lang legacy.Language, s string) legacy.LocalizedText {
	return legacy.LocalizedText{Language: lang, Raw: []byte(s)}
}

func rideObject(entries ...legacy.StringEntry) *legacy.Object {
	return &legacy.Object{
		Category: legacy.CategoryRide,
		FileName: "TCOAST",
		Strings:  legacy.StringTable{Entries: entries},
		Ride:     &legacy.RideData{},
	}
}

func TestSelectStrings_RideFields(t *testing.T) {
	obj := rideObject(
		entry(text(legacy.LangEnglishUK, "Test Coaster"), text(legacy.LangGerman, "Testachterbahn")),
		entry(text(legacy.LangEnglishUK, "A coaster for tests.")),
		entry(text(legacy.LangEnglishUK, "4 passengers per car")),
	)

	got := export.SelectStrings(obj, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "Test Coaster", got["name"]["en-GB"])
	assert.Equal(t, "Testachterbahn", got["name"]["de-DE"])
	assert.Equal(t, "A coaster for tests.", got["description"]["en-GB"])
	assert.Equal(t, "4 passengers per car", got["capacity"]["en-GB"])
}

func TestSelectStrings_DiscardsEmptyAndPlaceholders(t *testing.T) {
	obj := rideObject(
		entry(
			text(legacy.LangEnglishUK, "Test Coaster"),
			text(legacy.LangFrench, "   "),
			text(legacy.LangSwedish, "Not Translated into Swedish yet"),
			text(legacy.LangDutch, "NOT TRANSLATED"),
		),
		entry(),
		entry(),
	)

	got := export.SelectStrings(obj, nil)

	require.Contains(t, got, "name")
	assert.Equal(t, map[string]string{"en-GB": "Test Coaster"}, got["name"])
	assert.NotContains(t, got, "description")
	assert.NotContains(t, got, "capacity")
}

func TestSelectStrings_DiscardsDuplicateOfPrimary(t *testing.T) {
	obj := rideObject(
		entry(
			text(legacy.LangEnglishUK, "Test Coaster"),
			text(legacy.LangEnglishUS, "Test Coaster"),
			text(legacy.LangGerman, "Testachterbahn"),
		),
		entry(), entry(),
	)

	got := export.SelectStrings(obj, nil)

	assert.NotContains(t, got["name"], "en-US")
	assert.Contains(t, got["name"], "de-DE")
}

func TestSelectStrings_StripsFormattingCodes(t *testing.T) {
	obj := rideObject(entry(text(legacy.LangEnglishUK, "\x05Test\x0b Coaster")), entry(), entry())
	got := export.SelectStrings(obj, nil)
	assert.Equal(t, "Test Coaster", got["name"]["en-GB"])
}

func TestSelectStrings_OverridesWinAndFillGaps(t *testing.T) {
	obj := rideObject(
		entry(text(legacy.LangEnglishUK, "Test Coaster"), text(legacy.LangGerman, "Alt")),
		entry(), entry(),
	)
	ov := localization.Overrides{
		"TCOAST": {
			"name":        {"de-DE": "Testachterbahn", "fr-FR": "Montagnes d'essai"},
			"description": {"en-GB": "Added by overrides."},
		},
	}

	got := export.SelectStrings(obj, ov)

	assert.Equal(t, "Test Coaster", got["name"]["en-GB"], "legacy fills the gap")
	assert.Equal(t, "Testachterbahn", got["name"]["de-DE"], "override wins")
	assert.Equal(t, "Montagnes d'essai", got["name"]["fr-FR"])
	assert.Equal(t, "Added by overrides.", got["description"]["en-GB"])
}

func TestSelectStrings_EmptyOverrideMapLeavesResultUnchanged(t *testing.T) {
	obj := rideObject(
		entry(text(legacy.LangEnglishUK, "Test Coaster")),
		entry(text(legacy.LangEnglishUK, "A coaster.")),
		entry(),
	)

	plain := export.SelectStrings(obj, nil)
	empty := export.SelectStrings(obj, localization.Overrides{})
	assert.Equal(t, plain, empty)
}

func TestSelectStrings_OverlayIsIdempotent(t *testing.T) {
	obj := rideObject(
		entry(text(legacy.LangEnglishUK, "Test Coaster")),
		entry(), entry(),
	)
	ov := localization.Overrides{
		"TCOAST": {"name": {"en-GB": "Renamed Coaster", "de-DE": "Umbenannt"}},
	}

	once := export.SelectStrings(obj, ov)

	// Applying the same overlay to an already-merged map must change
	// nothing.
	twice := export.SelectStrings(obj, ov)
	for field, langs := range ov["TCOAST"] {
		for code, t2 := range langs {
			twice[field][code] = t2
		}
	}
	assert.Equal(t, once, twice)
}

func TestSelectStrings_WhitelistPrunesOverrideFields(t *testing.T) {
	obj := &legacy.Object{
		Category: legacy.CategoryFootpath,
		FileName: "PATHASP",
		Strings: legacy.StringTable{Entries: []legacy.StringEntry{
			entry(text(legacy.LangEnglishUK, "Asphalt Path")),
		}},
		Footpath: &legacy.FootpathData{},
	}
	ov := localization.Overrides{
		"PATHASP": {
			"name":        {"fr-FR": "Chemin en asphalte"},
			"description": {"en-GB": "Footpaths carry no description."},
		},
	}

	got := export.SelectStrings(obj, ov)

	assert.Contains(t, got, "name")
	assert.NotContains(t, got, "description", "whitelist is authoritative post-merge")
}
