// Package model defines the canonical data types shared across the flow engine.
//
// Conventions:
//   - Timestamps: int64 milliseconds since Unix epoch
//   - Prices, strikes and notionals: float64 dollars
//   - Optional numerics: *float64 (nil = not reported by the producer)
//   - Contract codes: 21-character OCC option symbols
package model
