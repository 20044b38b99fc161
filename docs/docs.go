// Package docs registers the OpenAPI description served under /swag/swagger/.
// Regenerate with: swag init -g cmd/hrblog/main.go
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
        "/api/v1/posts": {
            "get": {
                "description": "All posts, newest first. Without a status filter drafts are included.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List blog posts",
                "parameters": [
                    {"type": "string", "description": "draft or published", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.BlogPost"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Slug, read time and SEO defaults are derived from the body.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BlogPostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.BlogPost"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/v1/posts/by-slug/{slug}": {
            "get": {
                "description": "The post and up to three published posts of the same category.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post by slug",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.BlogPostDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/v1/posts/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Rebuilds the whole record. Author, creation time and date are kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Replace a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BlogPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports the state of the store and cache connections.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.BlogPostDetailResponse": {
            "type": "object",
            "properties": {
                "post": {"$ref": "#/definitions/models.BlogPost"},
                "relatedPosts": {"type": "array", "items": {"$ref": "#/definitions/models.RelatedPost"}}
            }
        },
        "dto.BlogPostRequest": {
            "type": "object",
            "required": ["title", "content", "image", "category"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "image": {"type": "string"},
                "category": {"type": "string"},
                "summary": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "enum": ["draft", "published"]},
                "seo": {"$ref": "#/definitions/models.SEO"},
                "readTime": {"type": "string"}
            }
        },
        "models.BlogPost": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "summary": {"type": "string"},
                "content": {"type": "string"},
                "image": {"type": "string"},
                "category": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "author": {"type": "string"},
                "seo": {"$ref": "#/definitions/models.SEO"},
                "readTime": {"type": "string"},
                "date": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.RelatedPost": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "image": {"type": "string"},
                "category": {"type": "string"},
                "slug": {"type": "string"},
                "date": {"type": "string"},
                "author": {"type": "string"}
            }
        },
        "models.SEO": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "canonical": {"type": "string"},
                "ogTitle": {"type": "string"},
                "ogDescription": {"type": "string"},
                "ogImage": {"type": "string"},
                "ogType": {"type": "string"},
                "robots": {"type": "string"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "details": {}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HR Blog API",
	Description:      "Blog back end of the HR services site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
