package export

import (
	"sort"
	"strings"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
	"github.com/leicestersquare/OpenGraphics/internal/localization"
)

// StringMap is the descriptor strings structure: field name → language
// code → text.
type StringMap map[string]map[string]string

// notTranslatedMarker prefixes the placeholder texts the legacy data
// uses for languages that were never localized.
const notTranslatedMarker = "not translated"

// primaryLanguage is the first language code of the legacy string
// table; duplicate translations are measured against it.
const primaryLanguage = "en-GB"

// stringFields maps each category to its string-table slots in slot
// order. Only the ride category carries more than a name.
func stringFields(c legacy.Category) []string {
	if c == legacy.CategoryRide {
		return []string{"name", "description", "capacity"}
	}
	return []string{"name"}
}

// SelectStrings extracts, filters, and merges the localized strings
// for an object:
//
//  1. every language entry of each category-relevant slot is decoded
//     and trimmed;
//  2. empty strings and "not translated" placeholders are discarded;
//  3. a non-primary-language string identical to the primary-language
//     string of the same field is discarded;
//  4. overrides for the object overlay the result, winning per
//     field/language while legacy entries fill the gaps;
//  5. fields outside the category's whitelist are removed, and fields
//     left without languages are dropped.
//
// Postcondition: no field in the result has an empty language map, and
// merging an empty override map leaves the legacy-derived result
// unchanged.
func SelectStrings(obj *legacy.Object, overrides localization.Overrides) StringMap {
	fields := stringFields(obj.Category)
	result := StringMap{}

	for slot, field := range fields {
		entry := obj.Strings.Slot(slot)
		if entry == nil {
			continue
		}
		langs := map[string]string{}
		for _, lt := range entry.Texts {
			code := lt.Language.Code()
			if code == "" {
				continue
			}
			text, err := legacy.DecodeText(lt.Language, lt.Raw)
			if err != nil {
				continue
			}
			if text == "" {
				continue
			}
			if strings.HasPrefix(strings.ToLower(text), notTranslatedMarker) {
				continue
			}
			langs[code] = text
		}
		// Drop redundant duplicates of the primary translation.
		if primary, ok := langs[primaryLanguage]; ok {
			for code, text := range langs {
				if code != primaryLanguage && text == primary {
					delete(langs, code)
				}
			}
		}
		if len(langs) > 0 {
			result[field] = langs
		}
	}

	if ov := overrides.ForObject(obj.FileName); ov != nil {
		for field, langs := range ov {
			merged := result[field]
			if merged == nil {
				merged = map[string]string{}
				result[field] = merged
			}
			for code, text := range langs {
				merged[code] = text
			}
		}
	}

	// The whitelist is authoritative after the merge: override-supplied
	// fields outside it are pruned too.
	allowed := map[string]bool{}
	for _, f := range fields {
		allowed[f] = true
	}
	for field, langs := range result {
		if !allowed[field] || len(langs) == 0 {
			delete(result, field)
		}
	}
	return result
}

// fieldOrder fixes the serialization order of descriptor string fields.
var fieldOrder = []string{"name", "description", "capacity"}

// orderedFields returns the map's field names in canonical order:
// known fields first in fixed order, then any remainder sorted.
func (m StringMap) orderedFields() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range fieldOrder {
		if _, ok := m[f]; ok {
			out = append(out, f)
			seen[f] = true
		}
	}
	var rest []string
	for f := range m {
		if !seen[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// orderedLanguages returns a field's language codes with the primary
// language first and the rest sorted.
func orderedLanguages(langs map[string]string) []string {
	var out []string
	if _, ok := langs[primaryLanguage]; ok {
		out = append(out, primaryLanguage)
	}
	var rest []string
	for code := range langs {
		if code != primaryLanguage {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
