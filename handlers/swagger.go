package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// swagger-ui is served from unpkg, so this page relaxes the default policy.
const swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' https://unpkg.com; img-src 'self' data:; object-src 'none'"

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the board API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Security-Policy", swaggerCSP)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Anonymous board API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "anonymous-board", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Comment": {"type":"object","properties":{"id":{"type":"integer"},"content":{"type":"string"},"created_at":{"type":"string","example":"2024-05-01 12:00:00"}}},
      "Error": {"type":"object","properties":{"error":{"type":"string"},"status":{"type":"integer"},"code":{"type":"string","enum":["missing_content","empty_content","content_too_long","invalid_body","payload_too_large","rate_limited","storage_unavailable","forbidden","not_found","internal_error"]}}}
    }
  },
  "paths": {
    "/api/comments": {
      "get": {
        "summary": "List every comment, oldest first",
        "responses": {
          "200": { "description": "comments", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/Comment"}}}}},
          "429": { "description": "rate limited" },
          "503": { "description": "storage unavailable" }
        }
      },
      "post": {
        "summary": "Submit a comment (1-5000 characters, markup is stripped)",
        "requestBody": { "required": true, "content": { "application/json": { "schema": {"type":"object","required":["content"],"properties":{"content":{"type":"string"}}}}}},
        "responses": {
          "201": { "description": "created", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Comment"}}}},
          "400": { "description": "missing, empty or too long content", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Error"}}}},
          "413": { "description": "body too large" },
          "429": { "description": "rate limited" },
          "503": { "description": "storage unavailable" }
        }
      }
    },
    "/post": {
      "post": {
        "summary": "HTML form submission; redirects to / (invalid input is dropped silently)",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"content":{"type":"string"},"csrf_token":{"type":"string"}}}}}},
        "responses": { "303": { "description": "redirect to board" }, "403": { "description": "csrf failure" }, "429": { "description": "rate limited" } }
      }
    },
    "/health": { "get": { "summary": "Liveness and database check", "responses": { "200": { "description": "healthy" }, "503": { "description": "unhealthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
