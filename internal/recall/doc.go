// Package recall holds the classification core: the recall record model,
// keyword classifiers, the priority rules, and the novelty detector.
//
// Everything here is pure and total: functions depend only on their
// arguments, never touch configuration or I/O, and never fail on
// arbitrary text input.
package recall
