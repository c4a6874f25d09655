package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Encoding names a serialized form of a document.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingFor derives the encoding and compression from a file name:
// ".yaml" and ".yml" select YAML, anything else JSON, and a trailing ".zst"
// selects zstd compression.
func EncodingFor(path string) (enc Encoding, compressed bool) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".zst") {
		compressed = true
		name = strings.TrimSuffix(name, ".zst")
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return EncodingYAML, compressed
	default:
		return EncodingJSON, compressed
	}
}

// Encode serializes doc with the given encoding.
func Encode(doc *Document, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingJSON:
		return ToText(doc)
	case EncodingYAML:
		return ToYAML(doc)
	default:
		return nil, errors.New(errors.CodeInvalidInput, "unknown encoding %q", enc)
	}
}

// Decode parses data with the given encoding. zstd input is detected by
// its magic number and decompressed first.
func Decode(data []byte, enc Encoding) (*Document, error) {
	data, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	switch enc {
	case EncodingJSON:
		return FromText(data)
	case EncodingYAML:
		return FromYAML(data)
	default:
		return nil, errors.New(errors.CodeInvalidInput, "unknown encoding %q", enc)
	}
}

// ExportJSON writes doc as JSON to path, zstd-compressed when path ends
// in ".zst".
func ExportJSON(doc *Document, path string) error {
	_, compressed := EncodingFor(path)
	return export(doc, path, EncodingJSON, compressed)
}

// ImportJSON reads a JSON document from path. Compressed files are
// recognized by content, not by name.
func ImportJSON(path string) (*Document, error) {
	return importAs(path, EncodingJSON)
}

// ExportFile writes doc to path using the encoding and compression
// implied by its name; see [EncodingFor].
func ExportFile(doc *Document, path string) error {
	enc, compressed := EncodingFor(path)
	return export(doc, path, enc, compressed)
}

// ImportFile reads a document from path using the encoding implied by its
// name.
func ImportFile(path string) (*Document, error) {
	enc, _ := EncodingFor(path)
	return importAs(path, enc)
}

func export(doc *Document, path string, enc Encoding, compressed bool) error {
	data, err := Encode(doc, enc)
	if err != nil {
		return err
	}
	if compressed {
		if data, err = Compress(data); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func importAs(path string, enc Encoding) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := Decode(data, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
