// Package swagger registers the generated OpenAPI document.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["meta"],
                "summary": "Readiness banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["artifacts"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "description": "file contents", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "per-upload options JSON", "name": "options", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/artifact.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["artifacts"],
                "summary": "List recent uploads",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/artifact.RecentEntry"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/{id}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["artifacts"],
                "summary": "Fetch an artifact",
                "parameters": [
                    {"type": "string", "description": "artifact identifier", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "delete": {
                "tags": ["artifacts"],
                "summary": "Delete an artifact",
                "parameters": [
                    {"type": "string", "description": "artifact identifier", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "delete token", "name": "X-Delete-Token", "in": "header", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/{id}/thumbnail": {
            "get": {
                "produces": ["image/png"],
                "tags": ["artifacts"],
                "summary": "Fetch an artifact's thumbnail",
                "parameters": [
                    {"type": "string", "description": "artifact identifier", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "artifact.RecentEntry": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "displayName": {"type": "string"},
                "mimeType": {"type": "string"},
                "sizeBytes": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "artifact.UploadResponse": {
            "type": "object",
            "properties": {
                "deleteToken": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Droplet API",
	Description:      "Self-hosted file and image hosting: POST a file, get a public URL.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
