// Package docs is generated by swaggo/swag from the annotations in
// cmd/mapbuilder and internal/httpapi. Regenerate with
// `swag init -g cmd/mapbuilder/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/images": {
            "delete": {
                "description": "An empty id list removes every configured image.",
                "consumes": ["application/json"],
                "tags": ["images"],
                "summary": "Remove images",
                "parameters": [
                    {
                        "description": "Image ids",
                        "name": "body",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/types.RemoveImagesRequest"}
                    }
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/layers/{id}/opacity": {
            "put": {
                "description": "Layer types without an opacity paint property are left unchanged.",
                "consumes": ["application/json"],
                "tags": ["layers"],
                "summary": "Set a layer's opacity",
                "parameters": [
                    {"type": "string", "description": "Layer id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Opacity in [0,1]",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.OpacityRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/layers/{id}/visibility": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["layers"],
                "summary": "Show or hide a layer",
                "parameters": [
                    {"type": "string", "description": "Layer id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Visibility",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.VisibilityRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/map": {
            "put": {
                "description": "Destroys the active map and initializes the document. The body may be JSON, YAML or TOML.",
                "consumes": ["application/json", "application/x-yaml"],
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Replace the map",
                "parameters": [
                    {
                        "description": "Map document",
                        "name": "document",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.MapDocument"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["map"],
                "summary": "Destroy the map",
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "200 once the active map finished its style setup, 503 otherwise.",
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Readiness",
                "responses": {
                    "200": {"description": "ready", "schema": {"type": "string"}},
                    "503": {"description": "not ready", "schema": {"type": "string"}}
                }
            }
        },
        "/sources/{id}/data": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["sources"],
                "summary": "Replace a GeoJSON source's data",
                "parameters": [
                    {"type": "string", "description": "Source id", "name": "id", "in": "path", "required": true},
                    {"description": "GeoJSON", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Map status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.ImageStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "string", "example": "tehran"},
                "state": {"type": "string", "example": "registered"}
            }
        },
        "types.LayerStatus": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "points-layer"},
                "present": {"type": "boolean"},
                "source": {"type": "string", "example": "points-source"},
                "type": {"type": "string", "example": "symbol"}
            }
        },
        "types.MapDocument": {
            "type": "object",
            "properties": {
                "controls": {"type": "array", "items": {"type": "object"}},
                "images": {"type": "array", "items": {"type": "object"}},
                "layers": {"type": "array", "items": {"type": "object"}},
                "log_events": {"type": "array", "items": {"type": "string"}, "example": ["load", "click"]},
                "options": {"type": "object"},
                "sources": {"type": "array", "items": {"type": "object"}},
                "style": {"type": "object"}
            }
        },
        "types.OpacityRequest": {
            "type": "object",
            "properties": {
                "opacity": {"type": "number", "example": 0.5}
            }
        },
        "types.RemoveImagesRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}, "example": ["tehran"]}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "applied_total": {"type": "integer", "example": 3},
                "container_id": {"type": "string", "example": "map"},
                "controls": {"type": "integer"},
                "events": {"type": "integer"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/types.ImageStatus"}},
                "last_error": {"type": "string"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/types.LayerStatus"}},
                "run_id": {"type": "string"},
                "sources": {"type": "array", "items": {"type": "string"}},
                "state": {"type": "string", "example": "ready"},
                "style_loaded": {"type": "boolean"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        },
        "types.VisibilityRequest": {
            "type": "object",
            "properties": {
                "visible": {"type": "boolean", "example": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "mapbuilder API",
	Description:      "Drives a map lifecycle: replace the active map from a document, inspect it and adjust layers, sources and images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
