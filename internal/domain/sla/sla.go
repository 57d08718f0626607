// Package sla computes turnaround due dates and classifies jobs against
// them. Everything is a pure function of its arguments, so repeated calls
// with the same inputs always classify the same way.
package sla

import "time"

// Status is the delivery-risk classification of an accepted job.

type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusAtRisk  Status = "at_risk"
	StatusOverdue Status = "overdue"
)

// DueDate returns acceptedDate plus turnaroundDays calendar days. It is
// computed once at quote acceptance and treated as immutable afterwards;
// only derived values like DaysRemaining are refreshed.
func DueDate(acceptedDate time.Time, turnaroundDays int) time.Time {
	return acceptedDate.AddDate(0, 0, turnaroundDays)
}

// DaysRemaining counts whole calendar days from asOf until dueDate, negative
// once the due date has passed. Time-of-day is ignored.
func DaysRemaining(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(now) / (24 * time.Hour))
}

// Classify buckets a job by days remaining: Overdue when negative, AtRisk
// when within atRiskThresholdDays of the due date, OnTrack otherwise.
func Classify(dueDate, asOf time.Time, atRiskThresholdDays int) Status {
	remaining := DaysRemaining(dueDate, asOf)
	switch {
	case remaining < 0:
		return StatusOverdue
	case remaining <= atRiskThresholdDays:
		return StatusAtRisk
	default:
		return StatusOnTrack
	}
}
