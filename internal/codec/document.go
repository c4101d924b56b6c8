package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contacts/internal/contact"
)

// Document formats accepted by EncodeDocument and DecodeDocument.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidDocumentFormats lists the import/export formats.
var ValidDocumentFormats = []string{FormatJSON, FormatYAML}

// Document is the import/export layout.
type Document struct {
	Contacts []contact.Record `json:"contacts" yaml:"contacts"`
}

// EncodeDocument writes records to w in the given format.
func EncodeDocument(w io.Writer, format string, records []contact.Record) error {
	if records == nil {
		records = []contact.Record{}
	}
	doc := Document{Contacts: records}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json document: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml document: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q: must be one of %v", format, ValidDocumentFormats)
	}
}

// DecodeDocument reads records from r. Unknown fields are rejected so that
// typos like "phnoe" surface instead of silently dropping data.
func DecodeDocument(r io.Reader, format string) ([]contact.Record, error) {
	var doc Document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q: must be one of %v", format, ValidDocumentFormats)
	}

	return doc.Contacts, nil
}

// FormatFromExt maps a file extension to a document format.
func FormatFromExt(ext string) (string, bool) {
	switch ext {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}
