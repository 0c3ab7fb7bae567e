// Package storage persists the recall snapshot between runs.
//
// The snapshot is the bot's only durable state: the most recently
// processed records, overwritten wholesale at the end of each run and
// used as the novelty baseline on the next one.
package storage
