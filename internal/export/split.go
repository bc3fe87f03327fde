package export

import (
	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// SubExport is one artifact a legacy object decomposes into: which
// variant it is, the descriptor id it is exported under, and the
// objectType tag the descriptor reports.
type SubExport struct {
	Variant    Variant
	ID         string
	ObjectType string
}

// Split decides how an object decomposes into export artifacts. A
// footpath object splits into surface, queue, and railings sub-objects
// when splitMode is on; everything else (and footpaths with splitMode
// off) exports once under VariantNone.
//
// idOverride, when non-empty, is used verbatim; footpath sub-ids get
// the variant suffix appended literally. Without an override, ids come
// from BuildID; the surface and queue variants share the
// "footpath_surface" group prefix and the queue is distinguished by a
// "queue" suffix.
//
// Postcondition: the result is never empty; a split yields exactly
// three sub-exports with pairwise distinct ids.
func Split(obj *legacy.Object, idOverride string, splitMode bool) []SubExport {
	if obj.Category != legacy.CategoryFootpath || !splitMode {
		id := idOverride
		if id == "" {
			id = BuildID(obj.Provenance.Tag(), "", obj.FileName, "")
		}
		return []SubExport{{Variant: VariantNone, ID: id, ObjectType: obj.Category.TypeTag()}}
	}

	tag := obj.Provenance.Tag()
	var surface, queue, railings string
	if idOverride != "" {
		surface = idOverride + ".surface"
		queue = idOverride + ".queue"
		railings = idOverride + ".railings"
	} else {
		surface = BuildID(tag, "footpath_surface", obj.FileName, "")
		queue = BuildID(tag, "footpath_surface", obj.FileName, "queue")
		railings = BuildID(tag, "footpath_railings", obj.FileName, "")
	}

	return []SubExport{
		{Variant: VariantFootpathSurface, ID: surface, ObjectType: "footpath_surface"},
		{Variant: VariantFootpathQueue, ID: queue, ObjectType: "footpath_surface"},
		{Variant: VariantFootpathRailings, ID: railings, ObjectType: "footpath_railings"},
	}
}
