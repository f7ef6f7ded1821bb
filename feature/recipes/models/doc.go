// Package models defines the recipe tables and the allow-list registry that
// maps external field names to typed columns.
package models
