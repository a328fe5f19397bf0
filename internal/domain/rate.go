package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferenceRateCDI is the name of the interbank reference rate CDI holdings are linked to
const ReferenceRateCDI = "CDI"

// ReferenceRate is one observation of a market reference rate (annual, in percent)
type ReferenceRate struct {
	ID            uuid.UUID
	Name          string
	Rate          decimal.Decimal
	EffectiveDate time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}
