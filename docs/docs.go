// Package docs registers the OpenAPI document for the order mailer API.
// It mirrors the handler annotations in internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports liveness without contacting the email provider",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/responses.HealthResponse"}
                    }
                }
            }
        },
        "/send-order-confirmation": {
            "post": {
                "description": "Validates the order, composes the HTML email with inline images and sends it through the configured provider",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Send an order confirmation email",
                "parameters": [
                    {
                        "description": "Order confirmation details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/requests.OrderConfirmationRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/responses.OrderConfirmationResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    },
                    "422": {
                        "description": "Rejected by the email provider; other provider statuses pass through the same way",
                        "schema": {"$ref": "#/definitions/responses.ProviderErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/responses.InternalErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "requests.ImageAttachment": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "description": "base64 encoded image"},
                "filename": {"type": "string"},
                "type": {"type": "string", "example": "image/png"}
            }
        },
        "requests.OrderConfirmationRequest": {
            "type": "object",
            "required": ["recipientEmail", "orderNumber", "firstName"],
            "properties": {
                "recipientEmail": {"type": "string", "example": "jane@example.com"},
                "recipientName": {"type": "string"},
                "orderNumber": {"type": "string", "description": "string or number", "example": "1007"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "senderName": {"type": "string"},
                "senderEmail": {"type": "string"},
                "senderDomain": {"type": "string"},
                "customMessage": {"type": "string", "description": "inserted as HTML"},
                "images": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/requests.ImageAttachment"}
                }
            }
        },
        "responses.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "responses.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "timestamp": {"type": "string", "example": "2026-03-14T09:30:15.123Z"}
            }
        },
        "responses.InternalErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "responses.OrderConfirmationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "recipientEmail": {"type": "string"},
                "orderNumber": {"type": "string"}
            }
        },
        "responses.ProviderErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {
                    "type": "array",
                    "items": {"type": "object"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Order Mailer API",
	Description:      "Sends order confirmation emails with inline images through a transactional email provider.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
