// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/api/analyze": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "Analyze a food photo",
                "parameters": [
                    {"type": "file", "description": "JPEG, PNG, GIF or WEBP image, at most 5MB", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "description": "Quantity hint, e.g. 2 slices", "name": "quantity", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mealResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "List analyzed meals",
                "parameters": [
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Records to skip", "name": "skip", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.HistoryPage"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "Delete every meal",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/history/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "Get one meal",
                "parameters": [{"type": "string", "description": "Meal ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mealResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/history/{id}/export": {
            "get": {
                "produces": ["text/plain", "text/csv"],
                "tags": ["meals"],
                "summary": "Download a meal report",
                "parameters": [
                    {"type": "string", "description": "Meal ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "txt (default) or csv", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/api/history/{id}/portion": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["meals"],
                "summary": "Rescale a meal to a different portion",
                "parameters": [
                    {"type": "string", "description": "Meal ID", "name": "id", "in": "path", "required": true},
                    {"description": "Requested portion", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.portionBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mealResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Ask the nutrition assistant",
                "parameters": [{"description": "Question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.chatBody"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/nutrition.ChatReply"}}}
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"description": "Account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginBody"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/auth/google": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with a Google ID token",
                "parameters": [{"description": "Google credential", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.googleBody"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            }
        },
        "/api/auth/logout": {
            "post": {"produces": ["application/json"], "tags": ["auth"], "summary": "Clear the session cookie", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"request_id": {"type": "string"}, "error": {"$ref": "#/definitions/handler.errorEnvelope"}}
        },
        "handler.mealResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "data": {"$ref": "#/definitions/model.Meal"}}
        },
        "handler.portionBody": {
            "type": "object",
            "properties": {"portion": {"$ref": "#/definitions/nutrition.PortionRequest"}}
        },
        "handler.chatBody": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.loginBody": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.googleBody": {
            "type": "object",
            "properties": {"credential": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/model.PublicUser"}}
        },
        "model.PublicUser": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "userName": {"type": "string"}, "avatar": {"type": "string"}}
        },
        "model.Meal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "imagePath": {"type": "string"},
                "foodName": {"type": "string"},
                "servingSize": {"type": "string"},
                "isHealthy": {"type": "boolean"},
                "calories": {"type": "number"},
                "macronutrients": {"type": "object"},
                "micronutrients": {"type": "object"},
                "nutritionBreakdown": {"type": "object"},
                "healthMetrics": {"type": "object"},
                "analysis": {"type": "string"},
                "recommendation": {"type": "string"},
                "portionEstimate": {"type": "object"},
                "originalNutrition": {"type": "object"},
                "createdAt": {"type": "string"}
            }
        },
        "nutrition.PortionRequest": {
            "type": "object",
            "properties": {"multiplier": {"type": "number"}, "grams": {"type": "number"}, "category": {"type": "string"}, "confidence": {"type": "number"}}
        },
        "nutrition.ChatReply": {
            "type": "object",
            "properties": {"text": {"type": "string"}, "report": {"type": "object"}, "healthTip": {"type": "string"}, "info": {"type": "string"}}
        },
        "service.RegisterInput": {
            "type": "object",
            "properties": {"userName": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.HistoryPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Meal"}},
                "pagination": {"type": "object", "properties": {"total": {"type": "integer"}, "limit": {"type": "integer"}, "skip": {"type": "integer"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "NutriLens API",
	Description:      "Food photo nutrition analysis, history, portions and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
