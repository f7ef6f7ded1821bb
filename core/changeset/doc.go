// Package changeset computes the minimal set of fields that differ between a
// stored record and a batch of incoming values.
//
// Values are compared by canonical JSON (see Serialize). The rule is literal:
// arrays are ordered, so reordering the tags of a recipe is reported as a
// change even when the order carries no meaning for that field.
package changeset
