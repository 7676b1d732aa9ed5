// Package docs registra la especificación OpenAPI servida en /swagger/doc.json.
// Refleja las anotaciones godoc de internal/domain/encounters/handler.go;
// al cambiarlas, actualizar este archivo (o regenerarlo con swag init).
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
        "/api/v1/encounters": {
            "get": {
                "description": "Lista los encounters clínicos del paciente autenticado, ordenados por fecha (desc por defecto). Autenticación: ` + "`" + `X-Debug-User-ID` + "`" + ` (dev), cookie de sesión o ` + "`" + `Authorization: Bearer <token>` + "`" + `.",
                "produces": ["application/json"],
                "tags": ["encounters"],
                "summary": "Listar encounters del paciente",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de paciente para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "integer", "description": "Máximo de encounters a devolver (1-200). Por defecto 50", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Lista CSV de tipos (ej: Lab Reports,Vaccinations)", "name": "types", "in": "query"},
                    {"type": "string", "description": "Fecha/hora mínima occurred_at (RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Fecha/hora máxima occurred_at (RFC3339)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Texto de búsqueda en institución", "name": "q", "in": "query"},
                    {"type": "string", "description": "asc o desc", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/encounters.encounterResponse"}}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra un encounter para el paciente autenticado. Si no viene ` + "`" + `id` + "`" + ` se genera un UUID. Un ` + "`" + `id` + "`" + ` ya usado responde 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["encounters"],
                "summary": "Registrar encounter",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de paciente para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Datos del encounter; occurred_at en formato RFC3339", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/encounters.createEncounterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/encounters.encounterResponse"}},
                    "400": {"description": "invalid json / occurred_at inválido / tipo desconocido", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "409": {"description": "encounter id already exists", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/encounters/{encounterID}": {
            "get": {
                "description": "Devuelve un encounter del paciente autenticado. Los encounters de otros pacientes responden 404.",
                "produces": ["application/json"],
                "tags": ["encounters"],
                "summary": "Obtener encounter",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de paciente para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID del encounter", "name": "encounterID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/encounters.encounterResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "encounter not found", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/summary": {
            "get": {
                "description": "Conteos totales y del último mes (30 días), globales y por tipo. Alimenta las tarjetas del dashboard.",
                "produces": ["application/json"],
                "tags": ["encounters"],
                "summary": "Resumen de encounters",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de paciente para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/encounters.summaryResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "encounters.countResponse": {
            "type": "object",
            "properties": {
                "last_month": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "encounters.createEncounterRequest": {
            "type": "object",
            "properties": {
                "encounter_type": {"type": "string", "enum": ["OPD Encounters", "Admission Summary", "HCL Screening", "Lab Reports", "Appointments", "Vaccinations"]},
                "id": {"type": "string"},
                "institution": {"type": "string"},
                "occurred_at": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "encounters.encounterResponse": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "encounter_type": {"type": "string"},
                "id": {"type": "string"},
                "institution": {"type": "string"},
                "occurred_at": {"type": "string"},
                "patient_id": {"type": "string"},
                "recorded_at": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "encounters.summaryResponse": {
            "type": "object",
            "properties": {
                "all": {"$ref": "#/definitions/encounters.countResponse"},
                "by_type": {"type": "object", "additionalProperties": {"$ref": "#/definitions/encounters.countResponse"}}
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
	Title:            "Patient Portal API",
	Description:      "API del portal del paciente: encounters clínicos y resumen para el dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
