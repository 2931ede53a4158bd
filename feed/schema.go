package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://schemas.housing-api.local/feed/listings-page.json"

// pageSchema describes the envelope and the fields the mapper relies on.
// Numbers may arrive as strings.
const pageSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["listings"],
  "properties": {
    "listings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "address"],
        "properties": {
          "id": {"type": ["string", "number"]},
          "address": {
            "type": "object",
            "properties": {
              "formattedAddress": {"type": "string"},
              "geolocation": {
                "type": "object",
                "properties": {
                  "lat": {"$ref": "#/definitions/num"},
                  "lng": {"$ref": "#/definitions/num"}
                }
              }
            }
          },
          "bathrooms": {"$ref": "#/definitions/num"},
          "bedrooms": {"$ref": "#/definitions/num"},
          "usableArea": {"$ref": "#/definitions/num"},
          "price": {"$ref": "#/definitions/num"},
          "parkingSpaces": {"$ref": "#/definitions/num"}
        }
      }
    }
  },
  "definitions": {
    "num": {"type": ["number", "string", "null"]}
  }
}`

var compiledPageSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(pageSchema)); err != nil {
		panic(fmt.Sprintf("feed schema resource: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// Validate checks raw against the listing page schema.
func Validate(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("feed payload is not valid JSON: %w", err)
	}
	if err := compiledPageSchema.Validate(v); err != nil {
		return fmt.Errorf("feed schema validation failed: %w", err)
	}
	return nil
}
