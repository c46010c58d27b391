package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat decodes the request body into obj. Clients may wrap the payload
// under key, as in {"donation": {"donor_id": "HKS-D-00001", "total_amount": "50000"}},
// or send it bare, as in {"donor_id": "HKS-D-00001", "total_amount": "50000"}.
// The body stays readable for later binds.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			// {"payment": {...}}: errors in the wrapped object are reported as is
			return json.Unmarshal(inner, obj)
		}
	}

	// No envelope under key, or not a JSON object at all
	return json.Unmarshal(body, obj)
}
