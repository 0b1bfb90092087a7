package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gradebook API",
        "description": "Weekly marks and analytics backend for a school gradebook",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session info"},
        {"name": "Students", "description": "Roster management and bulk import"},
        {"name": "Weeks", "description": "Assessment week management"},
        {"name": "Marks", "description": "Marks entry sessions and commits"},
        {"name": "Analytics", "description": "Merit lists, rankings and statistics"},
        {"name": "Exports", "description": "CSV and PDF downloads"},
        {"name": "Teachers", "description": "Teacher account management"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Admission number taken"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and their marks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Bulk import roster workbook",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Import report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unreadable workbook or missing columns"}
                }
            }
        },
        "/weeks": {
            "get": {
                "tags": ["Weeks"],
                "summary": "List assessment weeks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Weeks"],
                "summary": "Open assessment week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWeekRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/weeks/{id}": {
            "get": {
                "tags": ["Weeks"],
                "summary": "Get week",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Weeks"],
                "summary": "Delete week and its marks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/marks/sheet": {
            "get": {
                "tags": ["Marks"],
                "summary": "Marks entry sheet for a week and class",
                "parameters": [
                    {"name": "week_id", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/marks/stage": {
            "post": {
                "tags": ["Marks"],
                "summary": "Stage a pending score",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkEntry"}}
                ],
                "responses": {
                    "202": {"description": "Staged"},
                    "403": {"description": "Outside assigned class"}
                }
            },
            "delete": {
                "tags": ["Marks"],
                "summary": "Discard a pending score",
                "parameters": [
                    {"name": "student_id", "in": "query", "required": true, "type": "string"},
                    {"name": "week_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Discarded"},
                    "404": {"description": "Nothing staged"}
                }
            }
        },
        "/marks/commit": {
            "post": {
                "tags": ["Marks"],
                "summary": "Commit staged scores for one week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Committed count", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Full analytics snapshot",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/statistics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-class descriptive statistics",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/classes/{label}/trend": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Score-over-time trend for one class",
                "parameters": [
                    {"name": "label", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/dashboard": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Dashboard totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/regenerate": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Force recomputation of a scope",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "Fresh snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/snapshots": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Read the durable snapshot for a scope",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No stored snapshot"}
                }
            },
            "post": {
                "tags": ["Analytics"],
                "summary": "Persist a snapshot to the durable tier",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Analytics"],
                "summary": "Remove the durable snapshot for a scope",
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "No stored snapshot"}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Instrumentation metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/merit-list.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Merit list CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/exports/archive": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an archived export by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Archived file"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        },
        "/exports/class-rankings.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Class rankings PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "scope", "in": "query", "type": "string", "default": "all"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teacher accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Register teacher account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/teachers/{id}": {
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "admission_no": {"type": "string"},
                "name": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "form": {"type": "string"}
            },
            "required": ["admission_no", "name", "gender", "form"]
        },
        "CreateWeekRequest": {
            "type": "object",
            "properties": {
                "term": {"type": "integer"},
                "week_number": {"type": "integer"},
                "description": {"type": "string"}
            },
            "required": ["term", "week_number"]
        },
        "MarkEntry": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "week_id": {"type": "string"},
                "score": {"type": "number"}
            },
            "required": ["student_id", "week_id", "score"]
        },
        "CommitRequest": {
            "type": "object",
            "properties": {
                "week_id": {"type": "string"}
            },
            "required": ["week_id"]
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "assigned_class": {"type": "string"}
            },
            "required": ["username", "password", "full_name", "assigned_class"]
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
