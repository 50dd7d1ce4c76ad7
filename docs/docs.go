// Package docs registra la especificación OpenAPI de la API en swag.
// swagger.json se mantiene junto a las anotaciones godoc de internal/interfaces/http.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación; main ajusta Host y Version al arrancar.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Boutique API",
	Description:      "API de inventario de la boutique: catálogo, ajuste atómico de stock y datos del panel.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
