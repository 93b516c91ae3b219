package http

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>DayRoute API %s - Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box}*,*::before,*::after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout',
    });
  </script>
</body>
</html>`

const openAPIRoute = "/docs/openapi.yaml"

// SetupDocs mounts Swagger UI at /docs. The OpenAPI document is read once from
// docPath; when it is missing the UI still loads and the document route 404s.
func SetupDocs(app *fiber.App, docPath string) {
	page := fmt.Sprintf(swaggerUIHTML, Version, openAPIRoute)
	doc, err := os.ReadFile(docPath)
	if err != nil {
		slog.Warn("openapi document unavailable", "path", docPath, "error", err)
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(page)
	})

	app.Get(openAPIRoute, func(c *fiber.Ctx) error {
		if doc == nil {
			return errNotFound(c, "openapi document not found")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(doc)
	})
}
