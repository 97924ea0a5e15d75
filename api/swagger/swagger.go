package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Workshop Work Order API",
        "description": "Work order lifecycle, audit trail and notifications for the repair shop",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "WorkOrders",
            "description": "Work order lifecycle and gates"
        },
        {
            "name": "Notifications",
            "description": "In-app inbox and preferences"
        },
        {
            "name": "Audit",
            "description": "Audit trail"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check against postgres and redis",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unreachable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/work-orders/{id}": {
            "get": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Get a work order with its checklists, evidence and notes",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Work order not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/sla": {
            "get": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Report dwell time, overdue status and next-transition blockers",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/advance": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Move a work order to the next lifecycle state",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Work order not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid transition or concurrent update",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Gate not satisfied",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/pause": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Park a work order in WAITING",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Missing reason",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Cannot pause from current state",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Pause reason",
                        "schema": {
                            "$ref": "#/definitions/PauseWorkOrderRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/resume": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Return a waiting work order to the state it paused from",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Order is not waiting",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/assign": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Assign the responsible technician",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Order already delivered",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Technician",
                        "schema": {
                            "$ref": "#/definitions/AssignTechnicianRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/evidence": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Attach photo or video evidence",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Evidence reference",
                        "schema": {
                            "$ref": "#/definitions/AddEvidenceRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/notes": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Attach a technical note",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Note",
                        "schema": {
                            "$ref": "#/definitions/AddNoteRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/checklists/{phase}/items/{itemId}": {
            "put": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Mark a checklist item done or not done",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "phase",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "INTAKE",
                            "DIAGNOSIS",
                            "TEARDOWN",
                            "REASSEMBLY",
                            "QUALITY_CHECK"
                        ]
                    },
                    {
                        "name": "itemId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Done flag",
                        "schema": {
                            "$ref": "#/definitions/SetChecklistItemRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-orders/{id}/signatures/{kind}": {
            "post": {
                "tags": [
                    "WorkOrders"
                ],
                "summary": "Record the intake or delivery signature",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Signature not allowed in current state",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Work order ID"
                    },
                    {
                        "name": "kind",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "intake",
                            "delivery"
                        ]
                    }
                ]
            }
        },
        "/api/v1/notifications": {
            "get": {
                "tags": [
                    "Notifications"
                ],
                "summary": "List the caller's notifications, newest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "unread",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/api/v1/notifications/unread-count": {
            "get": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Unread counter for polling clients",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/notifications/read": {
            "post": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Mark notifications read",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "IDs or all",
                        "schema": {
                            "$ref": "#/definitions/MarkReadRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/notifications/settings": {
            "get": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Get the caller's notification preferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Update the caller's notification preferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Partial settings",
                        "schema": {
                            "$ref": "#/definitions/UpdateNotificationSettingsRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/audit-events": {
            "get": {
                "tags": [
                    "Audit"
                ],
                "summary": "Query audit events (admin only)",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Not an admin",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "actorId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "entityType",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "entityId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "action",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "format": "date-time"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "format": "date-time"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        }
    },
    "definitions": {
        "PauseWorkOrderRequest": {
            "type": "object",
            "required": [
                "reason"
            ],
            "properties": {
                "reason": {
                    "type": "string",
                    "maxLength": 500
                }
            }
        },
        "AssignTechnicianRequest": {
            "type": "object",
            "required": [
                "technicianId"
            ],
            "properties": {
                "technicianId": {
                    "type": "string"
                }
            }
        },
        "AddEvidenceRequest": {
            "type": "object",
            "required": [
                "subtype",
                "url"
            ],
            "properties": {
                "subtype": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "photo",
                        "video"
                    ]
                },
                "url": {
                    "type": "string",
                    "format": "uri"
                }
            }
        },
        "AddNoteRequest": {
            "type": "object",
            "required": [
                "text"
            ],
            "properties": {
                "text": {
                    "type": "string",
                    "maxLength": 4000
                },
                "phase": {
                    "type": "string"
                }
            }
        },
        "SetChecklistItemRequest": {
            "type": "object",
            "required": [
                "done"
            ],
            "properties": {
                "done": {
                    "type": "boolean"
                }
            }
        },
        "MarkReadRequest": {
            "type": "object",
            "properties": {
                "ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "all": {
                    "type": "boolean"
                }
            }
        },
        "UpdateNotificationSettingsRequest": {
            "type": "object",
            "properties": {
                "inAppEnabled": {
                    "type": "boolean"
                },
                "emailEnabled": {
                    "type": "boolean"
                },
                "whatsappEnabled": {
                    "type": "boolean"
                },
                "taskReminders": {
                    "type": "boolean"
                },
                "appointmentReminders": {
                    "type": "boolean"
                },
                "quoteUpdates": {
                    "type": "boolean"
                },
                "systemAlerts": {
                    "type": "boolean"
                },
                "workdaysOnly": {
                    "type": "boolean"
                },
                "clearQuietHours": {
                    "type": "boolean"
                },
                "intensity": {
                    "type": "string",
                    "enum": [
                        "low",
                        "normal",
                        "high"
                    ]
                },
                "quietHoursStart": {
                    "type": "string",
                    "example": "22:00"
                },
                "quietHoursEnd": {
                    "type": "string",
                    "example": "06:00"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                },
                "has_next_page": {
                    "type": "boolean"
                },
                "has_prev_page": {
                    "type": "boolean"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
