// Package normalize converts raw, loosely-typed feed records into the
// canonical model types.
//
// Upstream producers are not schema-guaranteed: field names vary, numerics
// arrive as strings, and whole fields go missing. Normalization therefore
// never fails: every target field has an ordered list of candidate source
// fields and a defined default, and the first usable candidate wins.
package normalize
