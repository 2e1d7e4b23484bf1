// Package docs holds the OpenAPI document served on /openapi.json and the
// Swagger UI. Regenerate with `swag init -g cmd/server/main.go` after
// changing handler annotations.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ServiceInfo"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Liveness and in-process counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["risk"],
                "summary": "Score a student's disengagement risk",
                "parameters": [
                    {"description": "Student features", "name": "features", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.StudentFeatures"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/risk.RiskResult"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.Body"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errors.Body"}}
                }
            }
        },
        "/explain": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["risk"],
                "summary": "Score and report per-feature contributions",
                "parameters": [
                    {"description": "Student features", "name": "features", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.StudentFeatures"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/risk.ExplainResult"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.Body"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errors.Body"}}
                }
            }
        },
        "/retrain": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["retrain"],
                "summary": "Acknowledge a CSV upload for retraining",
                "parameters": [
                    {"type": "file", "description": "CSV file with a header row", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/retrain.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Body"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.Body"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errors.Body"}}
                }
            }
        }
    },
    "definitions": {
        "errors.Body": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "detail": {},
                "request_id": {"type": "string"}
            }
        },
        "retrain.Result": {
            "type": "object",
            "properties": {
                "samplesIngested": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "risk.ExplainResult": {
            "type": "object",
            "properties": {
                "contributions": {"type": "object", "additionalProperties": {"type": "number"}},
                "riskScore": {"type": "number"}
            }
        },
        "risk.RiskResult": {
            "type": "object",
            "properties": {
                "factors": {"type": "object", "additionalProperties": {"type": "number"}},
                "riskScore": {"type": "number"}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "metrics": {"type": "object", "additionalProperties": true},
                "status": {"type": "string", "example": "ok"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "types.ServiceInfo": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "title": {"type": "string", "example": "EduBloom AI Service"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "types.StudentFeatures": {
            "type": "object",
            "required": ["assignmentsOnTime", "attendance", "gpa", "lmsActivity", "quizAvg"],
            "properties": {
                "assignmentsOnTime": {"type": "number", "maximum": 1, "minimum": 0, "example": 0.85},
                "attendance": {"type": "number", "maximum": 100, "minimum": 0, "example": 92.5},
                "gpa": {"type": "number", "maximum": 4, "minimum": 0, "example": 3.4},
                "lmsActivity": {"type": "number", "maximum": 1, "minimum": 0, "example": 0.6},
                "quizAvg": {"type": "number", "maximum": 100, "minimum": 0, "example": 78}
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
	Title:            "EduBloom AI Service",
	Description:      "Microservice providing risk prediction utilities for EduBloom.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
