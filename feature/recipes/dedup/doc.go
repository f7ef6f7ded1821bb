// Package dedup decides whether recipes describe the same dish.
//
// Names are compared in their normalized form (see models.NormalizeName).
// BatchFindDuplicates is the cheap exact-name check run before any
// generation call. FindSimilarRecipes and CompareIngredients are the slower
// post-generation check: a candidate with a close name whose core
// ingredients overlap enough is merged instead of created.
package dedup
