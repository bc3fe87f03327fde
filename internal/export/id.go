// Package export implements the transformation pipeline that turns a
// decoded legacy object into one or more portable object descriptors:
// identifier derivation, string selection and merging, image slice
// planning, footpath splitting, descriptor assembly, and the batch
// orchestrator that drives it all.
package export

import (
	"strings"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// BuildID derives a stable object identifier by joining the non-empty
// segments with ".". fileName is lower-cased; the other segments are
// used as supplied.
//
// Postcondition: the result is deterministic for identical inputs and
// never has leading, trailing, or doubled separators.
func BuildID(sourceTag, groupPrefix, fileName, suffix string) string {
	segments := make([]string, 0, 4)
	for _, s := range []string{sourceTag, groupPrefix, strings.ToLower(fileName), suffix} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, ".")
}

// DefaultAuthors returns the descriptor author list for objects of the
// given provenance when no override is configured.
func DefaultAuthors(p legacy.Provenance) []string {
	switch p {
	case legacy.ProvenanceRCT1, legacy.ProvenanceRCT2:
		return []string{"Chris Sawyer", "Simon Foster"}
	case legacy.ProvenanceWW, legacy.ProvenanceTT:
		return []string{"Frontier Studios"}
	default:
		return nil
	}
}
