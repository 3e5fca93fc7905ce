package classify

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// keywordsSchema constrains the structured response shape before it is
// unmarshaled: a single object with a string array under "keywords".
const keywordsSchema = `{
	"type": "object",
	"required": ["keywords"],
	"properties": {
		"keywords": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

var keywordsSchemaLoader = gojsonschema.NewStringLoader(keywordsSchema)

// validateKeywordsJSON checks a JSON object against the keywords schema.
func validateKeywordsJSON(doc string) error {
	result, err := gojsonschema.Validate(keywordsSchemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("response does not match keywords schema: %v", result.Errors())
	}
	return nil
}
