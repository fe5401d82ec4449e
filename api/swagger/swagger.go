package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Math Practice API",
        "description": "Practice problem solving, solve statistics and unit-exam codes",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Solves", "description": "Problem generation and solve recording"},
        {"name": "Stats", "description": "Per-unit solve statistics and history"},
        {"name": "Units", "description": "Curriculum unit reference data"},
        {"name": "UnitExam", "description": "Unit-exam code generation and verification"},
        {"name": "TeacherAuth", "description": "Teacher identity approval workflow"}
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
        "/api/v1/solves": {
            "get": {
                "tags": ["Solves"],
                "summary": "Generate practice problems for a category",
                "parameters": [
                    {"name": "category", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing category"}
                }
            },
            "post": {
                "tags": ["Solves"],
                "summary": "Record a solve attempt",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordSolveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/solves/history": {
            "get": {
                "tags": ["Stats"],
                "summary": "Cursor-paginated solve history",
                "parameters": [
                    {"name": "userId", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "correct", "in": "query", "type": "boolean"},
                    {"name": "cursor_t", "in": "query", "type": "string"},
                    {"name": "cursor_id", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/solves/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Per-unit solve counts",
                "parameters": [
                    {"name": "userId", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/solves/stats/units": {
            "get": {
                "tags": ["Stats"],
                "summary": "Zero-filled per-unit statistics",
                "parameters": [
                    {"name": "userId", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/solves/stats/export": {
            "get": {
                "tags": ["Stats"],
                "summary": "Export unit statistics as CSV or PDF",
                "parameters": [
                    {"name": "userId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/api/v1/solves/units/{unitId}/samples": {
            "get": {
                "tags": ["Stats"],
                "summary": "Recent solve samples for a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "integer"},
                    {"name": "userId", "in": "query", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/solves/{id}/help": {
            "get": {
                "tags": ["Stats"],
                "summary": "Help text for a solve record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown solve"}
                }
            }
        },
        "/api/v1/unit": {
            "post": {
                "tags": ["Units"],
                "summary": "Create a curriculum unit",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUnitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/units": {
            "get": {
                "tags": ["Units"],
                "summary": "List curriculum units",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/unit-exam/generate": {
            "post": {
                "tags": ["UnitExam"],
                "summary": "Generate a unit-exam code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateUnitExamRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated"},
                    "400": {"description": "Invalid units or count"},
                    "500": {"description": "Unexpected failure"}
                }
            }
        },
        "/api/v1/unit-exam/verify": {
            "post": {
                "tags": ["UnitExam"],
                "summary": "Verify a unit-exam code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verification result"}
                }
            }
        },
        "/api/v1/unit-exam/{code}/questions": {
            "get": {
                "tags": ["UnitExam"],
                "summary": "Questions for a verified exam code",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/api/v1/teacher": {
            "post": {
                "tags": ["TeacherAuth"],
                "summary": "Submit a teacher identity request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherAuthRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/teacher": {
            "get": {
                "tags": ["TeacherAuth"],
                "summary": "List pending teacher identity requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/teacher/{id}/approve": {
            "post": {
                "tags": ["TeacherAuth"],
                "summary": "Approve a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown request"},
                    "409": {"description": "Already reviewed"}
                }
            }
        },
        "/api/v1/admin/teacher/{id}/reject": {
            "post": {
                "tags": ["TeacherAuth"],
                "summary": "Reject a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown request"},
                    "409": {"description": "Already reviewed"}
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
                "status": {"type": "integer"}
            }
        },
        "RecordSolveRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "unitId": {"type": "integer"},
                "category": {"type": "string"},
                "question": {"type": "string"},
                "userInput": {"type": "string"},
                "isCorrect": {"type": "boolean"},
                "helpText": {"type": "string"}
            }
        },
        "CreateUnitRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "GenerateUnitExamRequest": {
            "type": "object",
            "properties": {
                "selectedUnits": {"type": "array", "items": {"type": "integer"}},
                "questionCount": {"type": "integer"},
                "teacherId": {"type": "string"}
            }
        },
        "VerifyRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"}
            }
        },
        "CreateTeacherAuthRequest": {
            "type": "object",
            "properties": {
                "teacherId": {"type": "string"},
                "name": {"type": "string"},
                "imgUrl": {"type": "string"}
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
