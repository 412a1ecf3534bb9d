// Package http contains the chi handlers for the REST API: workbook
// uploads, aggregated statistics, CSV export, health checks and the
// WebSocket upgrade endpoint. Errors are rendered as RFC 7807 problem
// details.
package http
