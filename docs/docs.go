// Package docs registers the swagger document served at /api/swagger.json.
// It is kept by hand in step with the handler annotations.
package docs

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
        "/api/adzan": {
            "get": {
                "description": "Adzan phrases in Arabic with transliteration, translation and audio ranges",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Adzan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ContentResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/doa": {
            "get": {
                "description": "Doa after adzan in Arabic with transliteration, translation and audio ranges",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Doa",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ContentResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/upload": {
            "post": {
                "description": "Upload a JPEG, PNG or GIF image (<=50MB) to IPFS through Filebase",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Upload"],
                "summary": "Upload image",
                "parameters": [
                    {"type": "file", "description": "Image file (<=50MB)", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upload successful", "schema": {"$ref": "#/definitions/dto.UploadFileResponse"}},
                    "400": {"description": "Missing file, invalid type or too large", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Provider failure", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "options": {
                "tags": ["Upload"],
                "summary": "Upload preflight",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/upload/chunk": {
            "post": {
                "description": "Acknowledge a chunk; the final chunk completes the upload with a generated CID",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Upload"],
                "summary": "Upload chunk",
                "parameters": [
                    {"type": "file", "description": "Chunk bytes", "name": "chunk", "in": "formData", "required": true},
                    {"type": "integer", "description": "Zero based chunk index", "name": "chunkIndex", "in": "formData", "required": true},
                    {"type": "integer", "description": "Number of chunks", "name": "totalChunks", "in": "formData", "required": true},
                    {"type": "string", "description": "Original file name", "name": "fileName", "in": "formData", "required": true},
                    {"type": "string", "description": "Client generated file id", "name": "fileId", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Chunk accepted", "schema": {"$ref": "#/definitions/dto.UploadChunkResponse"}},
                    "400": {"description": "Missing or invalid fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "options": {
                "tags": ["Upload"],
                "summary": "Upload preflight",
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "dto.AudioClip": {
            "type": "object",
            "properties": {
                "end": {"type": "number"},
                "start": {"type": "number"},
                "url": {"type": "string"}
            }
        },
        "dto.ContentDocument": {
            "type": "object",
            "properties": {
                "audioUrl": {"type": "string"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.ContentItem"}},
                "notes": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "topic": {"type": "string"}
            }
        },
        "dto.ContentItem": {
            "type": "object",
            "properties": {
                "arabic": {"type": "string"},
                "audio": {"$ref": "#/definitions/dto.AudioClip"},
                "id": {"type": "integer"},
                "latin": {"type": "string"},
                "repeat": {"type": "integer"},
                "translation": {"type": "string"}
            }
        },
        "dto.ContentResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/dto.ContentDocument"},
                "success": {"type": "boolean"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "detail": {"type": "string"},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.UploadChunkResponse": {
            "type": "object",
            "properties": {
                "chunkIndex": {"type": "integer"},
                "cid": {"type": "string"},
                "fileName": {"type": "string"},
                "isComplete": {"type": "boolean"},
                "message": {"type": "string"},
                "progress": {"type": "integer"},
                "receivedChunks": {"type": "integer"},
                "success": {"type": "boolean"},
                "url": {"type": "string"}
            }
        },
        "dto.UploadFileResponse": {
            "type": "object",
            "properties": {
                "cid": {"type": "string"},
                "provider": {"type": "string"},
                "size": {"type": "integer"},
                "success": {"type": "boolean"},
                "url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mushola API",
	Description:      "Devotional content and IPFS upload proxy",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
