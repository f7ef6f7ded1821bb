// Package normalize turns loosely typed input values into the shapes the
// recipe fields store.
//
// Input arrives from JSON bodies and CSV cells. CSV cells are always text,
// so booleans and the time and serving counts are converted here. Older
// exports serialised arrays and objects with single quotes and None, True
// and False literals; those strings are repaired and parsed. Nothing in this
// package returns an error: a value that cannot be interpreted is kept as
// the original string and left for the field decoder to reject.
package normalize
