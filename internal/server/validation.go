// internal/server/validation.go
package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"shopify-analytics-service/internal/common/errors"
)

// questionRequestSchema rejects malformed requests before the pipeline runs.
// shop_access_token is required here even though the original transport marked
// it optional; a missing token always failed downstream anyway.
var questionRequestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"question", "store_id", "shop_access_token"},
	"properties": map[string]interface{}{
		"question": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"store_id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"shop_access_token": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
	},
}

func validateQuestionRequest(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(questionRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewRequestValidationFailedError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewRequestValidationFailedError(fmt.Sprintf("%v", errs))
	}

	return nil
}
