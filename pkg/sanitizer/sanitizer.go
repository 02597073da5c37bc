// Package sanitizer normalizes free-text input before validation and
// persistence. It never rejects input; rejection is the validators' job.
package sanitizer
