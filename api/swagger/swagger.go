package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Parsamooz School API",
        "description": "Class records, solar-calendar grade reports, exams and push notifications.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Records", "description": "Per-session class sheet cells"},
        {"name": "Reports", "description": "Monthly grade matrices, report cards and export jobs"},
        {"name": "Exams", "description": "Multiple-choice exams and answer sheets"},
        {"name": "Dashboard", "description": "Cached per-class statistics"},
        {"name": "Students", "description": "Student roster and attendance profiles"},
        {"name": "Classes", "description": "Class roster"},
        {"name": "Notifications", "description": "Push notification dispatches"}
    ],
    "paths": {
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List class records",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "type": "string"},
                    {"name": "teacherCode", "in": "query", "type": "string"},
                    {"name": "courseCode", "in": "query", "type": "string"},
                    {"name": "studentCode", "in": "query", "type": "string"},
                    {"name": "schoolYear", "in": "query", "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Records"],
                "summary": "Upsert a class record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertRecordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assessment-options": {
            "get": {
                "tags": ["Records"],
                "summary": "List qualitative assessment options",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "teacherCode", "in": "query", "required": true, "type": "string"},
                    {"name": "courseCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Records"],
                "summary": "Save an assessment option with its grade weight",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssessmentOptionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/monthly-grades": {
            "get": {
                "tags": ["Reports"],
                "summary": "Monthly grade matrix for a class course",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "required": true, "type": "string"},
                    {"name": "teacherCode", "in": "query", "required": true, "type": "string"},
                    {"name": "courseCode", "in": "query", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "required": true, "type": "integer"},
                    {"name": "showRanks", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/report-cards": {
            "get": {
                "tags": ["Reports"],
                "summary": "Credit-weighted report cards for a class",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an export job (CSV or PDF)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export by signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "410": {"description": "Token expired"}
                }
            }
        },
        "/exams": {
            "get": {
                "tags": ["Exams"],
                "summary": "List exams for a class",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Exams"],
                "summary": "Create an exam",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/answers": {
            "post": {
                "tags": ["Exams"],
                "summary": "Submit a student's answer row",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAnswersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/statistics": {
            "get": {
                "tags": ["Exams"],
                "summary": "Scored statistics and standard-competition ranking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/answer-sheets": {
            "post": {
                "tags": ["Exams"],
                "summary": "Render printable bubble answer sheets (PDF)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/AnswerSheetRequest"}}
                ],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF stream"}
                }
            }
        },
        "/dashboard/class": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-class statistics dashboard",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "required": true, "type": "integer"}
                ],
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
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "classCode", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{code}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student by code",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{code}/attendance": {
            "get": {
                "tags": ["Students"],
                "summary": "Attendance profile across the school year",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes of a school",
                "parameters": [
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{code}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get a class with its teacher/course assignments",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/push": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Queue a push dispatch to registered devices",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PushRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/dispatches/{id}": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Dispatch delivery status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "UpsertRecordRequest": {
            "type": "object",
            "properties": {
                "schoolCode": {"type": "string"},
                "classCode": {"type": "string"},
                "teacherCode": {"type": "string"},
                "courseCode": {"type": "string"},
                "studentCode": {"type": "string"},
                "date": {"type": "string", "description": "Gregorian date, YYYY-MM-DD"},
                "timeSlot": {"type": "string"},
                "presence": {"type": "string", "enum": ["present", "absent", "late"]},
                "assessments": {"type": "array", "items": {"type": "string"}},
                "grades": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/GradeEntry"}
                },
                "note": {"type": "string"}
            },
            "required": ["schoolCode", "classCode", "teacherCode", "courseCode", "studentCode", "date", "timeSlot"]
        },
        "GradeEntry": {
            "type": "object",
            "properties": {
                "value": {"type": "number"},
                "total": {"type": "number"}
            }
        },
        "AssessmentOptionRequest": {
            "type": "object",
            "properties": {
                "schoolCode": {"type": "string"},
                "teacherCode": {"type": "string"},
                "courseCode": {"type": "string"},
                "title": {"type": "string"},
                "weight": {"type": "integer", "description": "Signed delta applied to the monthly mean"}
            },
            "required": ["schoolCode", "teacherCode", "courseCode", "title"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["monthly_grades", "report_cards", "attendance"]},
                "schoolCode": {"type": "string"},
                "classCode": {"type": "string"},
                "teacherCode": {"type": "string"},
                "courseCode": {"type": "string"},
                "schoolYear": {"type": "integer"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "showRanks": {"type": "boolean"}
            },
            "required": ["type", "schoolCode", "classCode", "schoolYear", "format"]
        },
        "CreateExamRequest": {
            "type": "object",
            "properties": {
                "schoolCode": {"type": "string"},
                "classCode": {"type": "string"},
                "courseCode": {"type": "string"},
                "title": {"type": "string"},
                "questionCount": {"type": "integer"},
                "choiceCount": {"type": "integer"},
                "answerKey": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["schoolCode", "classCode", "courseCode", "title", "questionCount"]
        },
        "SubmitAnswersRequest": {
            "type": "object",
            "properties": {
                "studentCode": {"type": "string"},
                "answers": {"type": "array", "items": {"type": "integer", "description": "0 marks an unanswered question"}}
            },
            "required": ["studentCode", "answers"]
        },
        "AnswerSheetRequest": {
            "type": "object",
            "properties": {
                "studentCodes": {
                    "type": "array",
                    "items": {"type": "string"},
                    "description": "Empty means every enrolled student"
                }
            }
        },
        "PushRequest": {
            "type": "object",
            "properties": {
                "schoolCode": {"type": "string"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "studentCodes": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["schoolCode", "title", "body"]
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
