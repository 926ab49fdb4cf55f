// Package report aggregates gradient adjustments and cover heights into
// serializable summaries and renders them for terminals.
package report
