package format

import (
	"github.com/fatih/color"

	"github.com/KYD-04/Home-Files/pkg/logger"
)

// APIEndpoint represents an API endpoint
type APIEndpoint struct {
	Method      string
	Path        string
	Description string
}

// FormatHTTPMethod returns a colored and bold HTTP method string
func FormatHTTPMethod(method string) string {
	switch method {
	case "GET":
		return color.New(color.Bold, color.FgGreen).Sprint(method)
	case "POST":
		return color.New(color.Bold, color.FgYellow).Sprint(method)
	case "PUT":
		return color.New(color.Bold, color.FgBlue).Sprint(method)
	case "DELETE":
		return color.New(color.Bold, color.FgRed).Sprint(method)
	case "OPTIONS":
		return color.New(color.Bold, color.FgWhite).Sprint(method)
	default:
		return color.New(color.Bold).Sprint(method)
	}
}

// FormatProfile returns a colored banner line for a listener profile
func FormatProfile(name, addr string) string {
	green := color.New(color.FgGreen)
	return green.Sprint("Starting ") +
		color.New(color.Bold, color.FgCyan).Sprint(name) +
		green.Sprintf(" interface on %s...", addr)
}

// LogAPIEndpoint logs an API endpoint with consistent formatting
func LogAPIEndpoint(logger *logger.Logger, endpoint APIEndpoint) {
	// Tabs keep alignment since ANSI codes don't affect tab stops
	logger.Info("  %s\t\t%s\t\t%s",
		FormatHTTPMethod(endpoint.Method),
		endpoint.Path,
		endpoint.Description,
	)
}

// LogAPIEndpoints logs a header and a list of API endpoints
func LogAPIEndpoints(logger *logger.Logger, profile string, endpoints []APIEndpoint) {
	logger.Info("%s endpoints:", profile)
	for _, endpoint := range endpoints {
		LogAPIEndpoint(logger, endpoint)
	}
}
