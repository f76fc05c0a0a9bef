// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "PhishGuard Maintainers",
            "url": "https://github.com/raysh454/phishguard"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/navigation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Route table with the current entry marked",
                "parameters": [
                    {"type": "string", "description": "Current path", "name": "path", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.NavigationResponse"}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Dashboard statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/analytics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Analytics series and top blocked hosts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/analytics/export": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["shell"],
                "summary": "Analytics report as PDF",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Open a scanner session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/scanner.Snapshot"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Session snapshot",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scanner.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["scanner"],
                "summary": "Abandon a session; an in-flight result is discarded",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/scan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Trigger a scan",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Scan target", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ScanRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/scanner.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/copy": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Clipboard summary of the latest result",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.CopyResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Filtered detection history",
                "parameters": [
                    {"type": "string", "description": "URL substring", "name": "search", "in": "query"},
                    {"enum": ["all", "high", "medium", "low"], "type": "string", "description": "Risk tier", "name": "risk", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/history/export": {
            "get": {
                "produces": ["application/pdf", "application/json"],
                "tags": ["history"],
                "summary": "Export filtered history",
                "parameters": [
                    {"enum": ["pdf", "json"], "type": "string", "name": "format", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "risk", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/history/{id}/rescan": {
            "post": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Re-assess a stored record and diff the outcome",
                "parameters": [
                    {"type": "string", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ScanRequest": {
            "type": "object",
            "properties": {
                "url": {"type": "string", "example": "https://secure-paypal-verification.net"},
                "content": {"type": "string", "example": "Your account has been suspended"}
            }
        },
        "scanner.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string", "enum": ["idle", "scanning", "done"]},
                "url": {"type": "string"},
                "error": {"type": "string"},
                "can_scan": {"type": "boolean"}
            }
        },
        "server.NavigationResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string", "example": "/history"},
                "routes": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "label": {"type": "string"},
                            "path": {"type": "string"},
                            "current": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "server.CopyResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "server.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "session not found"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PhishGuard API",
	Description:      "Scanner sessions, detection history and dashboard data for the PhishGuard console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
