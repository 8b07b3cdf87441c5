package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "KASMS Results API",
        "description": "Grade computation, reconciliation and reporting service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Results", "description": "Exam result rosters and bulk saves"},
        {"name": "EditRequests", "description": "Locked-record edit workflow"},
        {"name": "Statistics", "description": "Aggregated performance reporting"},
        {"name": "Reports", "description": "Downloadable CSV/PDF summaries"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/exams/{id}/results": {
            "get": {
                "tags": ["Results"],
                "summary": "Load an exam's result roster with submission counts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exam not found"}
                }
            }
        },
        "/exams/{id}/results/bulk": {
            "post": {
                "tags": ["Results"],
                "summary": "Save changed result rows",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkSaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-row outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/edit-requests": {
            "get": {
                "tags": ["EditRequests"],
                "summary": "List edit requests",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "exam", "in": "query", "type": "integer"},
                    {"name": "result", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["EditRequests"],
                "summary": "Submit an edit request for a locked result",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEditRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate pending request"}
                }
            }
        },
        "/edit-requests/{id}/review": {
            "post": {
                "tags": ["EditRequests"],
                "summary": "Approve or reject a pending edit request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewEditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request already reviewed"}
                }
            }
        },
        "/statistics/exams/{id}": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Exam result statistics",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "scale", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics/classes/{id}": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Class-wide result statistics",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "scale", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics/classes/{id}/attendance-correlation": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Attendance vs performance correlation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics/students/{id}/trend": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Performance trend for a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/exams/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an exam statistics report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "scale", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/reports/classes/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a class statistics report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "scale", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "object"}
            }
        },
        "BulkSaveRequest": {
            "type": "object",
            "properties": {
                "results": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ResultUpdate"}
                }
            }
        },
        "ResultUpdate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "studentId": {"type": "integer"},
                "marksObtained": {"type": "number"},
                "remarks": {"type": "string"}
            }
        },
        "SubmitEditRequest": {
            "type": "object",
            "properties": {
                "exam_result": {"type": "integer"},
                "reason": {"type": "string"},
                "proposed_marks": {"type": "number"},
                "proposed_remarks": {"type": "string"}
            }
        },
        "ReviewEditRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "note": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
