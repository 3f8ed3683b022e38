package chunkstore

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// metadataSchema guards on-disk metadata records: a record that unmarshals
// but violates this shape is reported as cache corruption, not as an
// expired token.
const metadataSchema = `{
  "type": "object",
  "required": ["token", "total_filas", "total_chunks", "chunk_size", "stats"],
  "properties": {
    "token": {"type": "string", "minLength": 1},
    "total_filas": {"type": "integer", "minimum": 0},
    "total_chunks": {"type": "integer", "minimum": 0},
    "chunk_size": {"type": "integer", "minimum": 1},
    "stats": {"type": "object"}
  }
}`

var compiledMetadataSchema = jsonschema.MustCompileString("chunk_metadata.json", metadataSchema)

// validateMetadata checks raw metadata bytes against the schema.
func validateMetadata(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return compiledMetadataSchema.Validate(v)
}
