// Package csvimport parses the CSV files accepted by the bulk update endpoints
// and CLI. The header row is mandatory and is validated for the identifier
// columns before any data row is parsed.
package csvimport
