// Package document provides the interchange document for openmodel and its
// JSON, YAML and zstd-compressed encodings.
//
// # Overview
//
// A [Document] bundles any number of meshes and at most one structural
// model under a single identity. It is the unit that is written to disk,
// stored in a [store] backend and served over HTTP.
//
// # JSON Format
//
// The document is a single JSON object:
//
//	{
//	  "format": "openmodel",
//	  "version": 1,
//	  "guid": "1b4e28ba-2fa1-41d2-883f-0016d3cca427",
//	  "name": "pavilion",
//	  "meshes": [{
//	    "guid": "…", "name": "roof",
//	    "vertices": [{"guid": "…", "point": [0, 0, 3]}],
//	    "faces": [{"guid": "…", "vertices": ["…", "…", "…"]}]
//	  }],
//	  "structure": {
//	    "guid": "…",
//	    "nodes":    [{"guid": "…", "point": [0, 0, 0]}],
//	    "members":  [{"guid": "…", "start": "…", "end": "…"}],
//	    "supports": [{"guid": "…", "node": "…", "restraint": "TX|TY|TZ"}],
//	    "loads":    [{"guid": "…", "node": "…", "force": [0, 0, -10], "moment": [0, 0, 0]}]
//	  }
//	}
//
// Every entity may carry an "attributes" object whose values are tagged
// with their kind, e.g. {"area": {"type": "float", "value": 0.012}}.
//
// Identities are written in canonical UUID form. Coordinates use the
// shortest decimal form that parses back to the same float64, so
// [FromText] of [ToText] reproduces every coordinate bit for bit.
// NaN and infinities cannot be represented and fail with INVALID_INPUT.
//
// # Errors
//
// Decoding is all-or-nothing. Malformed input yields an
// *errors.ParseError with the byte offset, line and column where known and
// a path such as "meshes[0].faces[3].vertices[1]". A face, member, support
// or load that references an identity missing from the document yields an
// *errors.ReferentialIntegrityError.
//
// # Files
//
// [ExportJSON] and [ImportJSON] read and write files; a ".zst" suffix
// selects zstd compression. [ExportFile] and [ImportFile] additionally pick
// YAML for ".yaml" and ".yml" paths.
//
// [store]: github.com/matzehuels/openmodel/pkg/store
package document
