// Package utils provides loose-typing helpers shared by the normalizer and the
// generated-recipe coercion: numbers and booleans arrive as strings (CSV cells),
// json.Number (decoded request bodies) or native values (model output).
package utils
