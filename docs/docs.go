// Package docs contiene la especificación OpenAPI servida en /docs.
//
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/api/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Registrar usuario",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entity.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/modules": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["modules"],
                "summary": "Estado de los módulos",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/repository.Module"}}}
                }
            }
        },
        "/api/modules/{name}": {
            "put": {
                "security": [{"Bearer": []}],
                "tags": ["modules"],
                "summary": "Activar o desactivar un módulo (admin)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "name", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ModuleUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/repository.Module"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/dashboard/stats": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["dashboard"],
                "summary": "Estadísticas del dashboard",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardStatsDTO"}}
                }
            }
        },
        "/api/analytics/report": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["analytics"],
                "summary": "Reporte PDF de analítica",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/ai/conversations/{id}/reply": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["ai"],
                "summary": "Respuesta del chatbot",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReplyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReplyResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/entity.User"}
            }
        },
        "dto.ModuleUpdateRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"}
            }
        },
        "dto.DashboardStatsDTO": {
            "type": "object",
            "properties": {
                "total_customers": {"type": "integer"},
                "total_companies": {"type": "integer"},
                "active_tasks": {"type": "integer"},
                "pending_interactions": {"type": "integer"},
                "recent_activities": {"type": "array", "items": {"type": "object"}},
                "upcoming_deadlines": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.ReplyRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "dto.ReplyResponse": {
            "type": "object",
            "properties": {
                "user_message": {"type": "object"},
                "bot_message": {"type": "object"}
            }
        },
        "entity.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string"},
                "department": {"type": "string"},
                "is_active": {"type": "boolean"},
                "last_login": {"type": "string"}
            }
        },
        "repository.Module": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "enabled": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo información de la API exportada para el middleware de Swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "IntelliCX CRM API",
	Description:      "API REST del CRM: clientes, ventas, marketing, soporte, encuestas, empleados, base de conocimiento, workflows e IA.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
