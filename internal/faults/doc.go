// Package faults defines the error markers shared by the organizer pipeline.
//
// Stages wrap low-level filesystem errors with Wrap so callers can classify
// failures with errors.Is (archive failures are recoverable, validation and
// filesystem failures are not) while the message still names the stage and
// operation that failed.
package faults
