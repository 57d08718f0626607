// Package pricing holds the money arithmetic for quotes and invoices. All
// functions are pure and total over non-negative amounts and valid dates;
// callers validate input upstream.
package pricing

import (
	"math"
	"time"
)

// Config carries every pricing parameter. Nothing in this package reads
// ambient state; the host passes the same Config into every call so each
// function's test surface is explicit.
type Config struct {
	TaxRate           float64 // e.g. 0.15 for 15% GST
	TaxRegistered     bool    // no tax is charged while unregistered
	DepositThreshold  float64 // jobs at/above this total require a 50% deposit
	SmallMax          float64 // totals below this are Small
	MediumMax         float64 // totals at/below this (and >= SmallMax) are Medium
	LateFeeRatePerDay float64 // fraction of the original total accrued per overdue day
}

// ProjectSize buckets a job by total value.

type ProjectSize string

const (
	ProjectSizeSmall  ProjectSize = "small"
	ProjectSizeMedium ProjectSize = "medium"
	ProjectSizeLarge  ProjectSize = "large"
)

// Split is the two halves of a deposit-split payment. Balance values are
// derived as total minus deposit rather than recomputed, so the halves always
// reconstruct the whole with no rounding leak.
type Split struct {
	DepositAmount float64
	DepositTax    float64
	DepositTotal  float64
	BalanceAmount float64
	BalanceTax    float64
	BalanceTotal  float64
}

// LateFeeResult is the overdue surcharge for an unpaid invoice.
type LateFeeResult struct {
	DaysOverdue   int
	LateFee       float64
	TotalWithFees float64
}

// Tax returns the tax owed on an ex-tax amount, zero while unregistered.
func (c Config) Tax(amountExclTax float64) float64 {
	if !c.TaxRegistered {
		return 0
	}
	return Round2(amountExclTax * c.TaxRate)
}

// ClassifySize buckets a job total into Small/Medium/Large.
func (c Config) ClassifySize(total float64) ProjectSize {
	switch {
	case total < c.SmallMax:
		return ProjectSizeSmall
	case total <= c.MediumMax:
		return ProjectSizeMedium
	default:
		return ProjectSizeLarge
	}
}

// RequiresDeposit reports whether the job total is large enough to require a
// 50% deposit. Independent of the size tier so both Medium and Large jobs
// qualify.
func (c Config) RequiresDeposit(total float64) bool {
	return total >= c.DepositThreshold
}

// DepositSplit splits a quote into equal deposit and balance halves.
func DepositSplit(amountExclTax, tax, total float64) Split {
	depositAmount := Round2(amountExclTax / 2)
	depositTax := Round2(tax / 2)
	depositTotal := Round2(total / 2)
	return Split{
		DepositAmount: depositAmount,
		DepositTax:    depositTax,
		DepositTotal:  depositTotal,
		BalanceAmount: Round2(amountExclTax - depositAmount),
		BalanceTax:    Round2(tax - depositTax),
		BalanceTotal:  Round2(total - depositTotal),
	}
}

// LateFee accrues the configured daily rate on the original total for every
// calendar day past the due date. On or before the due date the fee is zero
// and the total is unchanged.
func (c Config) LateFee(originalTotal float64, dueDate, asOf time.Time) LateFeeResult {
	days := calendarDaysBetween(dueDate, asOf)
	if days <= 0 {
		return LateFeeResult{TotalWithFees: originalTotal}
	}
	fee := Round2(originalTotal * c.LateFeeRatePerDay * float64(days))
	return LateFeeResult{
		DaysOverdue:   days,
		LateFee:       fee,
		TotalWithFees: Round2(originalTotal + fee),
	}
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// calendarDaysBetween counts whole calendar days from a to b, negative when
// b precedes a. Time-of-day is ignored.
func calendarDaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
