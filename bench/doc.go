// Package bench runs one timed comparison of the device and sequential
// matrix multipliers and reports the outcome.
package bench
