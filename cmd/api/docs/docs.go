// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a user",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MsgResponse"}},
                    "400": {"description": "Username already registered", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/token": {
            "post": {
                "description": "Exchanges a username and password for a bearer token.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.TokenResponse"}},
                    "400": {"description": "Incorrect username or password", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/options/languages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Options"],
                "summary": "Supported answer languages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/options/answer-formats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Options"],
                "summary": "Supported answer formats",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/upload-pdf": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the PDF, extracts its text and images and builds the chunk index.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Upload a PDF",
                "parameters": [
                    {"type": "file", "description": "The PDF to index", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UploadResponse"}},
                    "400": {"description": "Not a PDF or larger than 500MB", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "PDF parsing failed", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/user-pdfs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "List my PDFs",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.DocumentItem"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/chat-history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Chat history for a PDF",
                "parameters": [
                    {"type": "string", "description": "Document id", "name": "file_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.HistoryItem"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/chat": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves matching chunks and images and asks the language model for an answer.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Ask a question about a PDF",
                "parameters": [
                    {"type": "string", "description": "Question", "name": "question", "in": "formData", "required": true},
                    {"type": "string", "description": "Document id", "name": "file_id", "in": "formData", "required": true},
                    {"type": "string", "description": "points, paragraph or summary", "name": "answer_format", "in": "formData"},
                    {"type": "string", "description": "Answer language", "name": "response_language", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ChatResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "PDF not found or chunking failed.", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/delete-pdf": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the PDF, its images and its chat history.",
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Delete a PDF",
                "parameters": [
                    {"type": "string", "description": "Document id", "name": "file_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MsgResponse"}},
                    "404": {"description": "PDF not found or not owned by user.", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Failed to delete file", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/pdf-image": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["image/png"],
                "tags": ["Documents"],
                "summary": "Download an extracted image",
                "parameters": [
                    {"type": "string", "description": "Document id", "name": "file_id", "in": "query", "required": true},
                    {"type": "string", "description": "Image file name", "name": "image", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.MessageResponse": {"type": "object", "properties": {"message": {"type": "string", "example": "PDF Chat App backend is running!"}}},
        "api.MsgResponse": {"type": "object", "properties": {"msg": {"type": "string", "example": "PDF deleted successfully."}}},
        "api.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string", "example": "PDF not found or not owned by user."}}},
        "api.TokenResponse": {"type": "object", "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string", "example": "bearer"}}},
        "api.UploadResponse": {"type": "object", "properties": {
            "filename": {"type": "string", "example": "report.pdf"},
            "file_id": {"type": "string"},
            "size": {"type": "integer", "example": 48213},
            "num_chunks": {"type": "integer", "example": 12},
            "num_images": {"type": "integer", "example": 2}
        }},
        "api.DocumentItem": {"type": "object", "properties": {"file_id": {"type": "string"}, "filename": {"type": "string"}}},
        "api.HistoryItem": {"type": "object", "properties": {"question": {"type": "string"}, "answer": {"type": "string"}}},
        "api.ChatResponse": {"type": "object", "properties": {
            "question": {"type": "string"},
            "pdf": {"type": "string", "example": "report.pdf"},
            "answer_format": {"type": "string", "example": "points"},
            "response_language": {"type": "string", "example": "English"},
            "answer": {"type": "string"},
            "images": {"type": "array", "items": {"type": "string"}}
        }}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "PDF Chat API",
	Description:      "Upload PDFs and ask questions about them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
