// Package docs holds the OpenAPI document served by the Swagger UI.
// It is maintained by hand; keep it in step with the routes in internal/infrastructure/restapi.
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
        "/balances/{chainId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["balances"],
                "summary": "Stored native balances of a chain",
                "parameters": [
                    {"type": "string", "description": "Chain ID", "name": "chainId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/restapi.BalanceView"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/blocks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Apply a block observation",
                "parameters": [
                    {"description": "Observed block", "name": "block", "in": "body", "required": true, "schema": {"$ref": "#/definitions/restapi.observeBlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/networks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["networks"],
                "summary": "List registered networks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.NetworkDescriptor"}}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["networks"],
                "summary": "Replace the network list",
                "parameters": [
                    {"description": "Descriptors", "name": "networks", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.NetworkDescriptor"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.NetworkDescriptor"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/networks/error": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["registry"],
                "summary": "Set the network error flag on every chain",
                "parameters": [
                    {"description": "Flag", "name": "flag", "in": "body", "required": true, "schema": {"$ref": "#/definitions/restapi.networkErrorRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/networks/{chainId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["networks"],
                "summary": "Get a network descriptor",
                "parameters": [
                    {"type": "string", "description": "Chain ID", "name": "chainId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.NetworkDescriptor"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["networks"],
                "summary": "Remove a network",
                "parameters": [
                    {"type": "string", "description": "Chain ID", "name": "chainId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Removal already in progress", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}},
                    "502": {"description": "A removal step failed", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/networks/{chainId}/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Get the state entry of a chain",
                "parameters": [
                    {"type": "string", "description": "Chain ID", "name": "chainId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.ChainStateView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/selected": {
            "get": {
                "produces": ["application/json"],
                "tags": ["selection"],
                "summary": "Get the selected network",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.NetworkDescriptor"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["selection"],
                "summary": "Select a network",
                "parameters": [
                    {"description": "Chain", "name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/restapi.selectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.NetworkDescriptor"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/restapi.APIErrorResponse"}}
                }
            }
        },
        "/states": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "All chain state entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/restapi.ChainStateView"}}}
                }
            }
        }
    },
    "definitions": {
        "entity.NetworkDescriptor": {
            "type": "object",
            "properties": {
                "blockExplorerUrl": {"type": "string"},
                "chainId": {"type": "string"},
                "decimals": {"type": "integer"},
                "fallbackRpcUrls": {"type": "array", "items": {"type": "string"}},
                "identifier": {"type": "string"},
                "name": {"type": "string"},
                "nativeSymbol": {"type": "string"},
                "primaryRpcUrl": {"type": "string"}
            }
        },
        "restapi.APIErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "step": {"type": "string"}
            }
        },
        "restapi.BalanceView": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "chainId": {"type": "string"},
                "decimals": {"type": "integer"},
                "formattedBalance": {"type": "string"},
                "isNative": {"type": "boolean"},
                "tokenAddress": {"type": "string"},
                "tokenSymbol": {"type": "string"},
                "walletAddress": {"type": "string"}
            }
        },
        "restapi.ChainStateView": {
            "type": "object",
            "properties": {
                "baseFeePerGas": {"type": "string"},
                "blockHeight": {"type": "integer"},
                "chainId": {"type": "string"},
                "networkError": {"type": "boolean"}
            }
        },
        "restapi.networkErrorRequest": {
            "type": "object",
            "properties": {
                "networkError": {"type": "boolean"}
            }
        },
        "restapi.observeBlockRequest": {
            "type": "object",
            "properties": {
                "baseFeePerGas": {"type": "string"},
                "blockHeight": {"type": "integer"},
                "chainId": {"type": "string"}
            }
        },
        "restapi.selectRequest": {
            "type": "object",
            "properties": {
                "chainId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Network Registry API",
	Description:      "Multi-chain network registry: descriptors, chain heads, selection and removal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
