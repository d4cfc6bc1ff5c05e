// Package api embeds the OpenAPI description of the JSON endpoints.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
