// Package dataprocessing implements the normalization and aggregation core:
// parsing raw spreadsheet grids into typed pick/pack records, combining
// records across uploads, aggregating per-employee performance with an
// efficiency classification, and deriving weekly pick trends.
//
// All operations are pure functions of their input (plus logging); derived
// views are recomputed from the full record set on every call and never
// cached or mutated in place.
package dataprocessing
