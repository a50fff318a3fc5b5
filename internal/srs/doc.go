// Package srs computes the next scheduling state of a word after an answer.
//
// Two schedulers share the Scheduler contract: ModelScheduler, backed by the
// FSRS memory model, and LegacyScheduler, a coarse interval-doubling rule used
// when the model path fails. ScheduleWithFallback chains them and reports which
// one produced the result.
package srs
