package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time rollup of an owner's portfolio.
// Snapshots are fully derived and regenerated on every history rebuild,
// so they carry no identity of their own.
type Snapshot struct {
	Owner     string
	Timestamp time.Time
	Gross     decimal.Decimal // market / accrued value of every holding
	Invested  decimal.Decimal // principal still invested
	Inflow    decimal.Decimal // contributions made on this day
	Outflow   decimal.Decimal // withdrawals made on this day
}

// WithdrawalSimulation is the read-only answer to "what if I withdrew this much now"
type WithdrawalSimulation struct {
	Gross          decimal.Decimal
	Net            decimal.Decimal
	TotalTax       decimal.Decimal
	ShortTermTax   decimal.Decimal
	IncomeTax      decimal.Decimal
	RealizedProfit decimal.Decimal
	Details        []string
}
