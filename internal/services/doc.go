// Package services holds the application services behind the HTTP
// transport: the upload registry with its asynchronous workbook parsing,
// dataset queries, and health reporting.
package services
