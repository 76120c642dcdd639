// Package docs holds the OpenAPI document served at /swagger.
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
		"/auth/login": {
			"post": {
				"summary": "Login",
				"tags": [
					"auth"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.loginResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"summary": "Logout",
				"tags": [
					"auth"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/auth/register": {
			"post": {
				"summary": "Register a new employee",
				"tags": [
					"auth"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.registerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.registerResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/billing/notifications": {
			"post": {
				"summary": "Send billing notifications",
				"tags": [
					"staff"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"summary": "Liveness probe",
				"tags": [
					"health"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"summary": "Readiness probe",
				"tags": [
					"health"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.readinessResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/handler.readinessResponse"
						}
					}
				}
			}
		},
		"/me": {
			"get": {
				"summary": "Current session",
				"tags": [
					"session"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.meResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/me/notifications/{id}/read": {
			"put": {
				"summary": "Mark a notification read",
				"tags": [
					"session"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.meResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/meals/today": {
			"get": {
				"summary": "Today's meals",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handler.mealCardResponse"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/menu": {
			"get": {
				"summary": "Menu board",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.menuBoardResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"post": {
				"summary": "Create a menu item",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.menuItemRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.MenuItem"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/menu/{id}": {
			"put": {
				"summary": "Update a menu item",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.menuItemRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"delete": {
				"summary": "Delete a menu item",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/menu/{id}/availability": {
			"put": {
				"summary": "Toggle availability",
				"tags": [
					"menu"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.MenuItem"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/orders": {
			"post": {
				"summary": "Place an order",
				"tags": [
					"orders"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.placeOrderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Order"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/records": {
			"get": {
				"summary": "Dining records",
				"tags": [
					"records"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.recordsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/records/{id}/review": {
			"post": {
				"summary": "Review a meal",
				"tags": [
					"records"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.reviewRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.reviewResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/reports/analytics": {
			"get": {
				"summary": "Download analytics report",
				"tags": [
					"reports"
				],
				"produces": [
					"text/csv"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "period",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "file"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/staff": {
			"get": {
				"summary": "List staff",
				"tags": [
					"staff"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.StaffMember"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/staff/debts": {
			"get": {
				"summary": "Outstanding debts",
				"tags": [
					"staff"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.UnpaidBalance"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/staff/{id}/role": {
			"put": {
				"summary": "Change a role",
				"tags": [
					"staff"
				],
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.roleRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.StaffMember"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/staff/{id}/settle": {
			"put": {
				"summary": "Settle a debt",
				"tags": [
					"staff"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"domain.Capabilities": {
			"type": "object",
			"properties": {
				"is_clerk": {
					"type": "boolean"
				},
				"is_admin": {
					"type": "boolean"
				},
				"is_super_admin": {
					"type": "boolean"
				}
			}
		},
		"domain.MenuItem": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"zh_name": {
					"type": "string"
				},
				"en_name": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"url": {
					"type": "string"
				},
				"is_available": {
					"type": "boolean"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.Notification": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"user_id": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"notification_type": {
					"type": "string"
				},
				"is_read": {
					"type": "boolean"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"domain.Order": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"user_id": {
					"type": "integer"
				},
				"payment_method": {
					"type": "string"
				},
				"payment_status": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"total_amount": {
					"type": "number"
				},
				"order_date": {
					"type": "string"
				}
			}
		},
		"domain.Profile": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"username": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"domain.StaffMember": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"username": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"domain.UnpaidBalance": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "integer"
				},
				"user_name": {
					"type": "string"
				},
				"unpaidAmount": {
					"type": "number"
				}
			}
		},
		"handler.dependencyStatus": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"handler.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"handler.loginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handler.loginResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/domain.Profile"
				},
				"capabilities": {
					"$ref": "#/definitions/domain.Capabilities"
				}
			}
		},
		"handler.meResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/domain.Profile"
				},
				"capabilities": {
					"$ref": "#/definitions/domain.Capabilities"
				},
				"notifications": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Notification"
					}
				}
			}
		},
		"handler.mealCardResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"en_name": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"image_url": {
					"type": "string"
				},
				"available": {
					"type": "boolean"
				},
				"total_reviews": {
					"type": "integer"
				},
				"good_reviews": {
					"type": "integer"
				},
				"recommendation": {
					"type": "string"
				}
			}
		},
		"handler.menuBoardResponse": {
			"type": "object",
			"properties": {
				"today": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.mealCardResponse"
					}
				},
				"others": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.mealCardResponse"
					}
				}
			}
		},
		"handler.menuItemRequest": {
			"type": "object",
			"required": [
				"zh_name"
			],
			"properties": {
				"zh_name": {
					"type": "string"
				},
				"en_name": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"url": {
					"type": "string"
				},
				"is_available": {
					"type": "boolean"
				}
			}
		},
		"handler.messageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				}
			}
		},
		"handler.placeOrderRequest": {
			"type": "object",
			"properties": {
				"employee_id": {
					"type": "integer"
				},
				"menu_item_id": {
					"type": "integer"
				},
				"payment": {
					"type": "string"
				}
			}
		},
		"handler.readinessResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"dependencies": {
					"type": "object",
					"additionalProperties": {
						"$ref": "#/definitions/handler.dependencyStatus"
					}
				}
			}
		},
		"handler.recordResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"date": {
					"type": "string"
				},
				"meal_name": {
					"type": "string"
				},
				"meal_en_name": {
					"type": "string"
				},
				"image_url": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"paid": {
					"type": "boolean"
				},
				"verdict": {
					"type": "string"
				},
				"comment": {
					"type": "string"
				}
			}
		},
		"handler.recordsResponse": {
			"type": "object",
			"properties": {
				"records": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.recordResponse"
					}
				},
				"debt": {
					"type": "number"
				}
			}
		},
		"handler.registerRequest": {
			"type": "object",
			"properties": {
				"employee_id": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"confirm_password": {
					"type": "string"
				}
			}
		},
		"handler.registerResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/domain.Profile"
				}
			}
		},
		"handler.reviewRequest": {
			"type": "object",
			"required": [
				"verdict"
			],
			"properties": {
				"verdict": {
					"type": "string"
				},
				"comment": {
					"type": "string"
				}
			}
		},
		"handler.reviewResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"dining_record_id": {
					"type": "integer"
				},
				"verdict": {
					"type": "string"
				},
				"comment": {
					"type": "string"
				}
			}
		},
		"handler.roleRequest": {
			"type": "object",
			"required": [
				"role"
			],
			"properties": {
				"role": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Portal token issued by /auth/login, sent as: Bearer TOKEN",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meal Portal API",
	Description:      "Role-aware gateway in front of the cafeteria user, order and admin services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
