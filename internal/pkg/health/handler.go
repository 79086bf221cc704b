package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler returns the echo handler for the health endpoint.
// DOWN answers 503; DEGRADED still answers 200 with the details in the body.
func Handler(service *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := service.GetHealthResponse(c.Request().Context())

		statusCode := http.StatusOK
		if response.Status == StatusDown {
			statusCode = http.StatusServiceUnavailable
		}
		return c.JSON(statusCode, response)
	}
}
