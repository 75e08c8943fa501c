package handlers

import (
	"encoding/json"
	"fmt"
)

// bindFormJSON unmarshals a JSON-encoded multipart form field into obj.
// Used where a request carries structured data next to a file upload.
func bindFormJSON(value string, obj interface{}) error {
	if value == "" {
		return fmt.Errorf("missing form field")
	}
	return json.Unmarshal([]byte(value), obj)
}
