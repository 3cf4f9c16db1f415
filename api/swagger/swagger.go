// Package swagger embeds the OpenAPI document of the users API.
package swagger

import _ "embed"

//go:embed users.swagger.json
var doc []byte

// Doc returns the OpenAPI 2.0 document.
func Doc() []byte {
	return doc
}
