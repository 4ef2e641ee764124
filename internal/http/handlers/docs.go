package handlers

import "github.com/gin-gonic/gin"

const docsUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>MediSecure API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>
      body { margin: 0; background: #f8fafc; }
      #swagger-ui { max-width: 1200px; margin: 0 auto; }
    </style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: "/openapi.json",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        layout: "BaseLayout"
      });
    </script>
  </body>
</html>`

func DocsUI(ctx *gin.Context) {
	ctx.Data(200, "text/html; charset=utf-8", []byte(docsUIHTML))
}

// Kept deliberately small: enough for the docs UI to render the surface.
const openAPIJSON = `{
  "openapi": "3.0.3",
  "info": {
    "title": "MediSecure API",
    "description": "Clinical scheduling backend: authentication, patients and appointments.",
    "version": "1.0.0"
  },
  "paths": {
    "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
    "/health/ready": {"get": {"summary": "Readiness probe", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}},
    "/auth/login": {"post": {"summary": "Exchange credentials for an access token", "responses": {"200": {"description": "Token issued"}, "401": {"description": "Invalid credentials"}}}},
    "/auth/logout": {"post": {"summary": "End the session client-side", "responses": {"200": {"description": "Logged out"}}}},
    "/auth/verify": {"get": {"summary": "Echo the claims behind the presented token", "responses": {"200": {"description": "Claims"}, "401": {"description": "Unauthenticated"}}}},
    "/auth/me": {"get": {"summary": "Profile behind the presented token", "responses": {"200": {"description": "Profile"}, "401": {"description": "Unauthenticated"}}}},
    "/appointments": {
      "get": {"summary": "List appointments", "responses": {"200": {"description": "Page of appointments"}}},
      "post": {"summary": "Book an appointment", "responses": {"201": {"description": "Created"}, "404": {"description": "Patient not found"}, "409": {"description": "Conflicting appointment"}}}
    },
    "/appointments/availability": {"get": {"summary": "Free slots for a doctor's day", "responses": {"200": {"description": "Slots"}}}},
    "/appointments/{id}": {
      "get": {"summary": "Fetch one appointment", "responses": {"200": {"description": "Appointment"}, "404": {"description": "Not found"}}},
      "put": {"summary": "Reschedule or change status", "responses": {"200": {"description": "Updated"}, "409": {"description": "Conflicting appointment"}}},
      "delete": {"summary": "Remove an appointment", "responses": {"204": {"description": "Deleted"}, "403": {"description": "Role not allowed"}}}
    },
    "/patients": {
      "get": {"summary": "List patients", "responses": {"200": {"description": "Page of patients"}}},
      "post": {"summary": "Register a patient", "responses": {"201": {"description": "Created"}}}
    },
    "/patients/{id}": {
      "get": {"summary": "Fetch one patient", "responses": {"200": {"description": "Patient"}, "404": {"description": "Not found"}}},
      "put": {"summary": "Update a patient", "responses": {"200": {"description": "Updated"}}},
      "delete": {"summary": "Remove a patient", "responses": {"204": {"description": "Deleted"}}}
    }
  }
}`

func OpenAPISpec(ctx *gin.Context) {
	ctx.Data(200, "application/json; charset=utf-8", []byte(openAPIJSON))
}
