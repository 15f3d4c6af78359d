package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admissions Eligibility API",
        "description": "Checks WASSCE results against university programme requirements.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Eligibility", "description": "Grade evaluation and ranked programme verdicts"},
        {"name": "Batches", "description": "Asynchronous cohort checks with signed downloads"},
        {"name": "Catalog", "description": "Universities, programmes and scholarships"},
        {"name": "Observability", "description": "Metrics snapshots"}
    ],
    "paths": {
        "/institutions": {
            "get": {
                "tags": ["Eligibility"],
                "summary": "List eligibility dispatchers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility": {
            "post": {
                "tags": ["Eligibility"],
                "summary": "Check eligibility for every programme",
                "description": "Each programme is evaluated with the rules of its own university.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EligibilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/{institution}": {
            "post": {
                "tags": ["Eligibility"],
                "summary": "Check eligibility for one institution's programmes",
                "parameters": [
                    {"name": "institution", "in": "path", "required": true, "type": "string", "description": "knust, ug, ucc, uew or offline"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EligibilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown institution", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/combinations": {
            "post": {
                "tags": ["Eligibility"],
                "summary": "Rank valid aggregate combinations",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentGrades"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/export": {
            "post": {
                "tags": ["Eligibility"],
                "summary": "Download eligibility results",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/batches": {
            "post": {
                "tags": ["Batches"],
                "summary": "Queue a batch eligibility check",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid cohort", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Batches disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/batches/{id}": {
            "get": {
                "tags": ["Batches"],
                "summary": "Batch job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/eligibility/batches/{id}/download": {
            "get": {
                "tags": ["Batches"],
                "summary": "Download a finished batch document via signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Job not finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/universities": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List universities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List programmes",
                "parameters": [
                    {"name": "universityId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scholarships": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List scholarships",
                "parameters": [
                    {"name": "universityId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Service metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "StudentGrades": {
            "type": "object",
            "properties": {
                "english": {"type": "string", "example": "B2"},
                "mathematics": {"type": "string", "example": "B3"},
                "science": {"type": "string", "example": "C4"},
                "social": {"type": "string", "example": "C5"},
                "elective1Subject": {"type": "string", "example": "Elective Mathematics"},
                "elective1Grade": {"type": "string", "example": "A1"},
                "elective2Subject": {"type": "string", "example": "Physics"},
                "elective2Grade": {"type": "string", "example": "B2"},
                "elective3Subject": {"type": "string", "example": "Chemistry"},
                "elective3Grade": {"type": "string", "example": "B3"},
                "elective4Subject": {"type": "string", "example": "Biology"},
                "elective4Grade": {"type": "string", "example": "C4"}
            }
        },
        "EligibilityRequest": {
            "allOf": [
                {"$ref": "#/definitions/StudentGrades"},
                {"type": "object", "properties": {"universityId": {"type": "string"}}}
            ]
        },
        "ExportRequest": {
            "allOf": [
                {"$ref": "#/definitions/EligibilityRequest"},
                {
                    "type": "object",
                    "required": ["format"],
                    "properties": {
                        "institution": {"type": "string"},
                        "format": {"type": "string", "enum": ["csv", "pdf"]}
                    }
                }
            ]
        },
        "BatchRequest": {
            "type": "object",
            "required": ["format", "students"],
            "properties": {
                "institution": {"type": "string"},
                "universityId": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "students": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "required": ["reference"],
                        "properties": {
                            "reference": {"type": "string", "example": "STU-001"},
                            "grades": {"$ref": "#/definitions/StudentGrades"}
                        }
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
