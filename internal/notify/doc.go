// Package notify renders classified recalls into notification payloads
// and delivers them through a transport adapter.
//
// Formatting is pure: a payload is a value carrying the composed rich
// text plus a priority accent color. Delivery applies the rate limit and
// bounded retry policy; failures are per-message and tallied, never
// fatal to the run.
package notify
