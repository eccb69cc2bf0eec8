// Package docs registers the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create a study event",
                "parameters": [
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "data contains the created event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "invalid input", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "missing or invalid token", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "event not found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/capacity": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Change the participant limit and promote waiters into new seats",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"description": "New limit", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateCapacityRequest"}}
                ],
                "responses": {
                    "200": {"description": "data contains the event and promoted account IDs", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "caller does not manage the event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "limit below accepted count", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "event busy, retry", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/enroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enrollments"],
                "summary": "Enroll the caller in an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "data.outcome is accepted or waiting", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "already enrolled or window closed", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "event busy, retry", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/disenroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enrollments"],
                "summary": "Withdraw the caller from an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data.promoted is the promoted account or null", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "enrollment not found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "event busy, retry", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/enrollments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enrollments"],
                "summary": "List enrollments of an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "data.items and data.pagination", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/enrollments/{accountID}/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enrollments"],
                "summary": "Accept a waiting enrollment of a confirmative event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "Account ID of the enrollment", "name": "accountID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the accepted enrollment", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "event full or not confirmative", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/enrollments/{accountID}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enrollments"],
                "summary": "Reject and remove an enrollment",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "Account ID of the enrollment", "name": "accountID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data.promoted is the promoted account or null", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "caller does not manage the event", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.CreateEventRequest": {
            "type": "object",
            "required": ["study_id", "title", "type", "limit_of_enrollments", "enrollment_closes_at", "starts_at", "ends_at"],
            "properties": {
                "study_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string", "enum": ["FCFS", "CONFIRMATIVE"]},
                "limit_of_enrollments": {"type": "integer"},
                "enrollment_opens_at": {"type": "string", "format": "date-time"},
                "enrollment_closes_at": {"type": "string", "format": "date-time"},
                "starts_at": {"type": "string", "format": "date-time"},
                "ends_at": {"type": "string", "format": "date-time"}
            }
        },
        "controllers.UpdateCapacityRequest": {
            "type": "object",
            "required": ["limit_of_enrollments"],
            "properties": {
                "limit_of_enrollments": {"type": "integer"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Study Enrollment API",
	Description:      "Enrollment admission for study events: first-come and confirmative events, waiting lists and promotion.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
