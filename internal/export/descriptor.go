package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

// descriptorVersion is the constant version tag every descriptor
// carries.
const descriptorVersion = "1.0"

// Descriptor is the canonical output record for one exported object or
// sub-object. It is constructed once, serialized, and discarded.
type Descriptor struct {
	ID      string
	Authors []string
	Version string
	// OriginalID is the legacy identity string; empty means absent.
	// Split sub-objects never carry one, because the split artifact is
	// not a 1:1 legacy object.
	OriginalID string
	ObjectType string
	Properties any
	// Images holds ManifestEntry values or reference strings; nil
	// serializes as null (the water category emits no images).
	Images  []any
	Strings StringMap
}

// Assemble composes one descriptor for the given sub-export. Authors
// fall back to the provenance default when authorsOverride is empty,
// and only the VariantNone export carries the legacy original identity.
func Assemble(sub SubExport, obj *legacy.Object, properties any, images []any, strs StringMap, authorsOverride []string) *Descriptor {
	authors := authorsOverride
	if len(authors) == 0 {
		authors = DefaultAuthors(obj.Provenance)
	}
	originalID := ""
	if sub.Variant == VariantNone {
		originalID = OriginalID(obj)
	}
	return &Descriptor{
		ID:         sub.ID,
		Authors:    authors,
		Version:    descriptorVersion,
		OriginalID: originalID,
		ObjectType: sub.ObjectType,
		Properties: properties,
		Images:     images,
		Strings:    strs,
	}
}

// OriginalID renders the legacy identity string: header flags, padded
// file name, and checksum.
func OriginalID(obj *legacy.Object) string {
	return fmt.Sprintf("%08X|%-8s|%08X", obj.Flags, obj.FileName, obj.Checksum)
}

// MarshalJSON serializes the descriptor with its contractual field
// order: id, authors, version, originalId (omitted when absent),
// objectType, properties, images, strings.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("serializing %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write("id", d.ID); err != nil {
		return nil, err
	}
	if err := write("authors", d.Authors); err != nil {
		return nil, err
	}
	if err := write("version", d.Version); err != nil {
		return nil, err
	}
	if d.OriginalID != "" {
		if err := write("originalId", d.OriginalID); err != nil {
			return nil, err
		}
	}
	if err := write("objectType", d.ObjectType); err != nil {
		return nil, err
	}
	if err := write("properties", d.Properties); err != nil {
		return nil, err
	}
	if err := write("images", d.Images); err != nil {
		return nil, err
	}

	strs, err := d.Strings.marshalOrdered()
	if err != nil {
		return nil, err
	}
	buf.WriteString(`,"strings":`)
	buf.Write(strs)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalOrdered serializes the string map with fields in canonical
// order and the primary language first within each field.
func (m StringMap) marshalOrdered() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range m.orderedFields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(":{")
		langs := m[field]
		for j, code := range orderedLanguages(langs) {
			if j > 0 {
				buf.WriteByte(',')
			}
			ck, err := json.Marshal(code)
			if err != nil {
				return nil, err
			}
			cv, err := json.Marshal(langs[code])
			if err != nil {
				return nil, err
			}
			buf.Write(ck)
			buf.WriteByte(':')
			buf.Write(cv)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// descriptorJSON is the parse-side shape of a serialized descriptor.
type descriptorJSON struct {
	ID         string                       `json:"id"`
	Authors    []string                     `json:"authors"`
	Version    string                       `json:"version"`
	OriginalID *string                      `json:"originalId"`
	ObjectType string                       `json:"objectType"`
	Properties json.RawMessage              `json:"properties"`
	Images     []json.RawMessage            `json:"images"`
	Strings    map[string]map[string]string `json:"strings"`
}

// Parse reads a serialized descriptor back into its record form. An
// absent originalId parses as the empty string, never as a present
// empty value.
func Parse(data []byte) (*Descriptor, error) {
	var dj descriptorJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	d := &Descriptor{
		ID:         dj.ID,
		Authors:    dj.Authors,
		Version:    dj.Version,
		ObjectType: dj.ObjectType,
		Strings:    StringMap(dj.Strings),
	}
	if dj.OriginalID != nil {
		d.OriginalID = *dj.OriginalID
	}
	if dj.Properties != nil {
		var props any
		if err := json.Unmarshal(dj.Properties, &props); err != nil {
			return nil, fmt.Errorf("parsing descriptor properties: %w", err)
		}
		d.Properties = props
	}
	for _, raw := range dj.Images {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			d.Images = append(d.Images, s)
			continue
		}
		var e ManifestEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("parsing descriptor image entry: %w", err)
		}
		d.Images = append(d.Images, e)
	}
	return d, nil
}

// Write serializes the descriptor as UTF-8 JSON without a byte-order
// marker, two-space indented, with one trailing newline, and writes it
// atomically to path, creating missing parent directories.
func (d *Descriptor) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing descriptor %s: %w", d.ID, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing descriptor %s: %w", d.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing descriptor %s: %w", d.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming descriptor into place: %w", err)
	}
	return nil
}

// PackageDir zips the contents of dir into archivePath and removes the
// loose directory. A pre-existing archive at archivePath is replaced.
func PackageDir(dir, archivePath string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", archivePath, err)
	}
	zw := zip.NewWriter(f)

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("packaging %s: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing archive %s: %w", archivePath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing archive %s: %w", archivePath, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing packaged directory %s: %w", dir, err)
	}
	return nil
}
