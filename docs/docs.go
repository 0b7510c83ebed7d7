// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g internal/handler/http/handler.go
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
        "/health": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/projects": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "List the caller's projects",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Project"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Create a project",
                "parameters": [{"description": "project", "name": "project", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createProjectRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Project"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/contacts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Contacts"],
                "summary": "List the project's contacts",
                "parameters": [{"type": "string", "description": "project id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Contact"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Contacts"],
                "summary": "Import contacts from a csv file",
                "parameters": [
                    {"type": "string", "description": "project id", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "contacts csv", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Contact"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/contacts/{contactId}/replies": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Record an inbound reply from a contact",
                "parameters": [
                    {"type": "string", "description": "project id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "contact id", "name": "contactId", "in": "path", "required": true},
                    {"description": "reply", "name": "reply", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.replyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Conversation"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/templates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Templates"],
                "summary": "List the project's templates",
                "parameters": [{"type": "string", "description": "project id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Template"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Templates"],
                "summary": "Create a message template",
                "parameters": [
                    {"type": "string", "description": "project id", "name": "id", "in": "path", "required": true},
                    {"description": "template", "name": "template", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Template"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/confirmAndDispatchMessages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dispatch"],
                "summary": "Render messages for confirmation",
                "parameters": [
                    {"type": "string", "description": "project id", "name": "id", "in": "path", "required": true},
                    {"description": "message source", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.messageSourceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PreparedMessage"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/dispatchConfirmedMessages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dispatch"],
                "summary": "Send previewed messages",
                "parameters": [
                    {"type": "string", "description": "project id", "name": "id", "in": "path", "required": true},
                    {"description": "confirmed messages", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.dispatchConfirmedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.DispatchResult"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/project/{id}/reports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["Reports"],
                "summary": "Export the latest message of every conversation as csv",
                "parameters": [{"type": "string", "description": "project id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/dispatchMessages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dispatch"],
                "summary": "Render and send messages in one step",
                "parameters": [{"description": "dispatch request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.dispatchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.DispatchResult"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/statistics/{projectId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Message statistics of a project",
                "parameters": [{"type": "string", "description": "project id", "name": "projectId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Statistics"}}}
            }
        },
        "/realtime-statistics/{projectId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Message statistics of a project",
                "parameters": [{"type": "string", "description": "project id", "name": "projectId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Statistics"}}}
            }
        },
        "/conversations/{projectId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Conversations of a project, most recently updated first",
                "parameters": [{"type": "string", "description": "project id", "name": "projectId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.conversationsResponse"}}}
            }
        },
        "/dashboard/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Totals across the caller's projects",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Overview"}}}
            }
        }
    },
    "definitions": {
        "domain.Project": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "name": {"type": "string"},
                "originationNumber": {"type": "string"},
                "rotationSchedule": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Contact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "phone": {"type": "string"},
                "fname": {"type": "string"},
                "lname": {"type": "string"},
                "surveyLink": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": true},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Template": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "name": {"type": "string"},
                "kind": {"type": "string", "enum": ["initial", "response", "block"]},
                "content": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "direction": {"type": "string", "enum": ["outbound", "inbound"]},
                "status": {"type": "string"},
                "providerMessageId": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "domain.Conversation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "contactId": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.conversationsResponse": {
            "type": "object",
            "properties": {
                "conversations": {"type": "array", "items": {"$ref": "#/definitions/service.ConversationView"}}
            }
        },
        "service.ConversationView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "contactId": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "phone": {"type": "string"},
                "turn": {"type": "string", "enum": ["your turn", "their turn"]}
            }
        },
        "domain.PreparedMessage": {
            "type": "object",
            "properties": {
                "phone": {"type": "string"},
                "message": {"type": "string"},
                "contactId": {"type": "string"},
                "projectId": {"type": "string"}
            }
        },
        "domain.DispatchResult": {
            "type": "object",
            "properties": {
                "contactId": {"type": "string"},
                "phone": {"type": "string"},
                "renderedBody": {"type": "string"},
                "outcome": {"type": "string", "enum": ["sent", "failed"]},
                "providerMessageId": {"type": "string"},
                "status": {"type": "string"},
                "reason": {"type": "string"},
                "recordError": {"type": "string"}
            }
        },
        "domain.Statistics": {
            "type": "object",
            "properties": {
                "totalMessagesSent": {"type": "integer"},
                "totalMessagesDelivered": {"type": "integer"},
                "totalResponsesReceived": {"type": "integer"}
            }
        },
        "domain.Overview": {
            "type": "object",
            "properties": {
                "totalProjects": {"type": "integer"},
                "totalContacts": {"type": "integer"},
                "totalConversations": {"type": "integer"},
                "totalMessages": {"type": "integer"}
            }
        },
        "handler.createProjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "originationNumber": {"type": "string"},
                "rotationSchedule": {"type": "string"}
            }
        },
        "handler.createTemplateRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "name": {"type": "string"},
                "kind": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "handler.messageSourceRequest": {
            "type": "object",
            "properties": {
                "messageTemplateId": {"type": "string"},
                "message": {"type": "string"},
                "contactIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.dispatchRequest": {
            "type": "object",
            "properties": {
                "projectId": {"type": "string"},
                "messageTemplateId": {"type": "string"},
                "message": {"type": "string"},
                "contactIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.dispatchConfirmedRequest": {
            "type": "object",
            "properties": {
                "confirmedMessages": {"type": "array", "items": {"$ref": "#/definitions/domain.PreparedMessage"}}
            }
        },
        "handler.replyRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
	Host:             "localhost:6060",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campaign Messenger API",
	Description:      "SMS campaign dispatch, conversations and statistics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
