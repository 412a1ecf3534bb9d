// Package exporter writes generated reports to disk as CSV.
//
// Files carry a UTF-8 BOM so Excel opens them correctly, and large
// datasets can be written incrementally through StreamWriter.
package exporter
