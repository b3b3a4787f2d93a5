// Package docs registers the swagger document served at /swagger/. It
// mirrors the handler annotations in cmd/storefront and can be rebuilt with
// `swag init -g cmd/storefront/main.go`.
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
        "/cart": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartResponse"}}
                }
            }
        },
        "/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Add to cart",
                "parameters": [
                    {"description": "Product", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.addItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/cart/items/{id}": {
            "delete": {
                "produces": ["application/json"],
                "summary": "Remove from cart",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.cartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/cart/items/{id}/toggle": {
            "post": {
                "produces": ["application/json"],
                "summary": "Toggle cart item",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.toggleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Checkout",
                "parameters": [
                    {"description": "Delivery", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.checkoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "produces": ["text/event-stream"],
                "summary": "Cart change stream",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "creds", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/account.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Sizes", "name": "size", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Brands", "name": "brand", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Categories", "name": "category", "in": "query"},
                    {"type": "number", "description": "Minimum price", "name": "min", "in": "query"},
                    {"type": "number", "description": "Maximum price", "name": "max", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.listProductsResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Selected image index", "name": "image", "in": "query"},
                    {"type": "string", "description": "next or prev", "name": "step", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.productResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "produces": ["application/json"],
                "summary": "Profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.profileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Register",
                "parameters": [
                    {"description": "Registration", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.Registration"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/account.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "account.Profile": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "email": {"type": "string"},
                "orders": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        },
        "account.Registration": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "repeatPassword": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "cart.Line": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"}
            }
        },
        "catalog.Details": {
            "type": "object",
            "properties": {
                "brand": {"type": "string"},
                "color": {"type": "string"},
                "gender": {"type": "string"},
                "size": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "catalog.Product": {
            "type": "object",
            "properties": {
                "avitoLink": {"type": "string"},
                "connectSeller": {"type": "string"},
                "details": {"$ref": "#/definitions/catalog.Details"},
                "id": {"type": "integer"},
                "images": {"type": "array", "items": {"type": "string"}},
                "price": {"type": "number"},
                "title": {"type": "string"}
            }
        },
        "main.addItemRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}}
        },
        "main.cartResponse": {
            "type": "object",
            "properties": {
                "addedIds": {"type": "array", "items": {"type": "string"}},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/cart.Line"}},
                "totalCount": {"type": "integer"},
                "totalPrice": {"type": "number"}
            }
        },
        "main.checkoutRequest": {
            "type": "object",
            "properties": {"city": {"type": "string"}}
        },
        "main.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "main.listProductsResponse": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/main.productCard"}},
                "totalCount": {"type": "integer"}
            }
        },
        "main.loginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "main.productCard": {
            "type": "object",
            "properties": {
                "avitoLink": {"type": "string"},
                "connectSeller": {"type": "string"},
                "details": {"$ref": "#/definitions/catalog.Details"},
                "id": {"type": "integer"},
                "images": {"type": "array", "items": {"type": "string"}},
                "inCart": {"type": "boolean"},
                "price": {"type": "number"},
                "subtitle": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "main.productResponse": {
            "type": "object",
            "properties": {
                "inCart": {"type": "boolean"},
                "product": {"$ref": "#/definitions/catalog.Product"},
                "slider": {"$ref": "#/definitions/main.sliderState"}
            }
        },
        "main.profileResponse": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "email": {"type": "string"},
                "orders": {"type": "array", "items": {"type": "string"}},
                "placedOrders": {"type": "array", "items": {"$ref": "#/definitions/order.Order"}},
                "username": {"type": "string"}
            }
        },
        "main.sliderState": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "current": {"type": "integer"},
                "image": {"type": "string"}
            }
        },
        "main.toggleResponse": {
            "type": "object",
            "properties": {
                "inCart": {"type": "boolean"},
                "totalCount": {"type": "integer"}
            }
        },
        "order.Item": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "price": {"type": "number"},
                "productId": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.Item"}},
                "paymentUrl": {"type": "string"},
                "total": {"type": "number"},
                "username": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8443",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Product catalog, cart and accounts for the storefront",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
