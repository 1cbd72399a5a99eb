// Package billing models the payment provider notifications this system
// reacts to and the outcome of reconciling each one with local records.
package billing
