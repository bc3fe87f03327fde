package legacy

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Language is a legacy string-table language slot identifier.
type Language uint8

const (
	LangEnglishUK    Language = 0
	LangEnglishUS    Language = 1
	LangFrench       Language = 2
	LangGerman       Language = 3
	LangSpanish      Language = 4
	LangItalian      Language = 5
	LangDutch        Language = 6
	LangSwedish      Language = 7
	LangJapanese     Language = 8
	LangKorean       Language = 9
	LangChineseCN    Language = 10
	LangChineseTW    Language = 11
	LangPortugueseBR Language = 13
)

// Code returns the BCP 47 language code for the slot, or "" for slots
// the descriptor format does not carry.
func (l Language) Code() string {
	switch l {
	case LangEnglishUK:
		return "en-GB"
	case LangEnglishUS:
		return "en-US"
	case LangFrench:
		return "fr-FR"
	case LangGerman:
		return "de-DE"
	case LangSpanish:
		return "es-ES"
	case LangItalian:
		return "it-IT"
	case LangDutch:
		return "nl-NL"
	case LangSwedish:
		return "sv-SE"
	case LangJapanese:
		return "ja-JP"
	case LangKorean:
		return "ko-KR"
	case LangChineseCN:
		return "zh-CN"
	case LangChineseTW:
		return "zh-TW"
	case LangPortugueseBR:
		return "pt-BR"
	default:
		return ""
	}
}

// LocalizedText is one raw string-table entry for one language slot.
type LocalizedText struct {
	Language Language
	Raw      []byte
}

// StringEntry is one string-table slot (name, description, ...) holding
// the per-language raw encoded texts in file order.
type StringEntry struct {
	Texts []LocalizedText
}

// StringTable is the ordered sequence of string slots for an object.
// Slot 0 is the name; the ride category additionally uses slot 1
// (description) and slot 2 (capacity).
type StringTable struct {
	Entries []StringEntry
}

// Slot returns the entry at index i, or nil when the table has no such
// slot.
func (t StringTable) Slot(i int) *StringEntry {
	if i < 0 || i >= len(t.Entries) {
		return nil
	}
	return &t.Entries[i]
}

// DecodeText decodes a raw legacy string for the given language slot
// and trims surrounding whitespace. The legacy format stores Latin
// languages in Windows-1252 with embedded formatting control codes,
// and the CJK slots in their era-typical multibyte encodings.
func DecodeText(lang Language, raw []byte) (string, error) {
	stripped := make([]byte, 0, len(raw))
	for _, b := range raw {
		// Bytes below 0x20 are legacy inline formatting codes, not text.
		if b >= 0x20 {
			stripped = append(stripped, b)
		}
	}

	var dec *encoding.Decoder
	switch lang {
	case LangJapanese:
		dec = japanese.ShiftJIS.NewDecoder()
	case LangKorean:
		dec = korean.EUCKR.NewDecoder()
	case LangChineseCN:
		dec = simplifiedchinese.GBK.NewDecoder()
	case LangChineseTW:
		dec = traditionalchinese.Big5.NewDecoder()
	default:
		dec = charmap.Windows1252.NewDecoder()
	}

	out, err := dec.Bytes(stripped)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", lang.Code(), err)
	}
	return strings.TrimSpace(string(out)), nil
}
