// Package docs registers the OpenAPI document served under /swagger by the
// HTTP services. Regenerate it with `swag init -g cmd/order-service/main.go`
// after changing handler annotations.
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
        "/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create order",
                "parameters": [
                    {"description": "order", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/order.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/orders/my-orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List my orders",
                "parameters": [
                    {"type": "integer", "description": "page (from 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "order status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.ListResponse"}}
                }
            }
        },
        "/orders/{order_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order",
                "parameters": [
                    {"type": "string", "description": "order id", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/orders/{order_id}/cancel": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Cancel order",
                "parameters": [
                    {"type": "string", "description": "order id", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/admin/orders/{order_id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Move order status",
                "parameters": [
                    {"type": "string", "description": "order id", "name": "order_id", "in": "path", "required": true},
                    {"description": "status", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/order.UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/cod/collections": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cod"],
                "summary": "List COD collections",
                "parameters": [
                    {"type": "string", "description": "pending, collected or cancelled", "name": "status", "in": "query"},
                    {"type": "string", "description": "delivery person (admin only)", "name": "delivery_person_id", "in": "query"},
                    {"type": "integer", "description": "page (from 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cod.ListResponse"}}
                }
            }
        },
        "/cod/collections/{collection_id}/collect": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cod"],
                "summary": "Collect cash on delivery",
                "parameters": [
                    {"type": "string", "description": "collection id", "name": "collection_id", "in": "path", "required": true},
                    {"description": "collection", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/cod.CollectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cod.Collection"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/cod/my-cod-orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cod"],
                "summary": "My COD orders",
                "parameters": [
                    {"type": "string", "description": "pending, collected or cancelled", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cod.ListResponse"}}
                }
            }
        },
        "/cod/stats/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cod"],
                "summary": "COD summary",
                "parameters": [
                    {"type": "string", "description": "delivery person (admin only)", "name": "delivery_person_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cod.Summary"}}
                }
            }
        }
    },
    "definitions": {
        "httpx.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Insufficient stock"},
                "error_ar": {"type": "string"},
                "error_fr": {"type": "string", "example": "Stock insuffisant"},
                "code": {"type": "string", "example": "insufficient_stock"}
            }
        },
        "order.CreateOrderItem": {
            "type": "object",
            "required": ["product_id", "quantity"],
            "properties": {
                "product_id": {"type": "string"},
                "variant_id": {"type": "string"},
                "quantity": {"type": "integer", "maximum": 100, "minimum": 1}
            }
        },
        "order.AddressInput": {
            "type": "object",
            "required": ["latitude", "longitude", "address"],
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "address": {"type": "string", "maxLength": 500}
            }
        },
        "order.CreateOrderRequest": {
            "type": "object",
            "required": ["items", "payment_method"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.CreateOrderItem"}},
                "delivery_address": {"$ref": "#/definitions/order.AddressInput"},
                "payment_method": {"type": "string", "enum": ["cod", "card"]},
                "notes": {"type": "string"},
                "delivery_instructions": {"type": "string"}
            }
        },
        "order.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["confirmed", "preparing", "out_for_delivery", "delivered", "completed"]},
                "delivery_person_id": {"type": "string"}
            }
        },
        "order.Item": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "product_id": {"type": "string"},
                "variant_id": {"type": "string"},
                "product_name": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "string"},
                "total_price": {"type": "string"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "order_id": {"type": "string"},
                "order_number": {"type": "string", "example": "2026-000042"},
                "user_id": {"type": "string"},
                "subtotal": {"type": "string"},
                "delivery_fee": {"type": "string"},
                "total": {"type": "string"},
                "payment_method": {"type": "string"},
                "payment_status": {"type": "string"},
                "order_status": {"type": "string"},
                "cod_status": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.Item"}}
            }
        },
        "order.ListResponse": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.Order"}}
            }
        },
        "cod.CollectRequest": {
            "type": "object",
            "required": ["order_id", "collected_amount", "payment_method"],
            "properties": {
                "order_id": {"type": "string"},
                "collected_amount": {"type": "number", "example": 195.0},
                "payment_method": {"type": "string", "enum": ["cash", "card_on_delivery"]},
                "notes": {"type": "string"}
            }
        },
        "cod.Collection": {
            "type": "object",
            "properties": {
                "collection_id": {"type": "string"},
                "order_id": {"type": "string"},
                "order_number": {"type": "string"},
                "order_status": {"type": "string"},
                "amount_to_collect": {"type": "string"},
                "collected_amount": {"type": "string"},
                "payment_method": {"type": "string"},
                "collection_status": {"type": "string"},
                "collected_at": {"type": "string"},
                "collected_by": {"type": "string"},
                "collector_name": {"type": "string"}
            }
        },
        "cod.ListResponse": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/cod.Collection"}}
            }
        },
        "cod.Summary": {
            "type": "object",
            "properties": {
                "delivery_person_id": {"type": "string"},
                "total_count": {"type": "integer"},
                "pending_amount": {"type": "string"},
                "collected_amount": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "COD Delivery API",
	Description:      "Orders and cash-on-delivery collection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
