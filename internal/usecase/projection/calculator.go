package projection

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/tax"
)

// Projection kinds
const (
	KindTaxable = "TAXABLE"
	KindExempt  = "EXEMPT"
	KindSimple  = "SIMPLE"
)

// Comparison outcomes
const (
	BetterA = "A"
	BetterB = "B"
	Tie     = "TIE"
)

// MillionTarget is the goal FirstMillion plans for
const MillionTarget = 1_000_000.0

// DefaultReserveMonths is the emergency reserve horizon used when none is given
const DefaultReserveMonths = 6

// MonthPoint is one month of a projected series
type MonthPoint struct {
	Month    int
	Gross    decimal.Decimal
	Net      decimal.Decimal
	Invested decimal.Decimal
	Interest decimal.Decimal // interest earned during the month
}

// Projection is the outcome of a savings projection
type Projection struct {
	Gross    decimal.Decimal
	Invested decimal.Decimal
	Profit   decimal.Decimal
	Tax      decimal.Decimal
	Net      decimal.Decimal
	Kind     string
	Months   []MonthPoint
}

// MillionPlan is the monthly effort needed to reach MillionTarget
type MillionPlan struct {
	MonthlyContribution decimal.Decimal
	TotalInvested       decimal.Decimal
	TotalInterest       decimal.Decimal
}

// Reserve is an emergency reserve goal
type Reserve struct {
	Amount      decimal.Decimal
	Description string
}

// Comparison puts two projections side by side
type Comparison struct {
	A          *Projection
	B          *Projection
	Difference decimal.Decimal // absolute difference of net values
	Better     string
}

// FixedIncome projects a fixed-income investment month by month
// Logic:
//   - monthly rate = (1 + annual/100)^(1/12) - 1
//   - each month: interest on the balance first, then the contribution
//   - net = gross - profit * income tax rate for months*30 days, unless exempt
func FixedIncome(initial, monthly decimal.Decimal, months int, annualRate decimal.Decimal, exempt bool) (*Projection, error) {
	if err := validate(initial, monthly, annualRate, months); err != nil {
		return nil, err
	}

	monthlyRate := math.Pow(1+annualRate.InexactFloat64()/100, 1.0/12) - 1
	contribution := monthly.InexactFloat64()
	balance := initial.InexactFloat64()
	invested := balance

	points := make([]MonthPoint, 0, months+1)
	points = append(points, MonthPoint{
		Month:    0,
		Gross:    round(balance),
		Net:      round(balance),
		Invested: round(invested),
		Interest: decimal.Zero,
	})

	for month := 1; month <= months; month++ {
		interest := balance * monthlyRate
		balance += interest + contribution
		invested += contribution

		due := incomeTax(balance-invested, month, exempt)
		points = append(points, MonthPoint{
			Month:    month,
			Gross:    round(balance),
			Net:      round(balance - due),
			Invested: round(invested),
			Interest: round(interest),
		})
	}

	profit := balance - invested
	due := incomeTax(profit, months, exempt)

	kind := KindTaxable
	if exempt {
		kind = KindExempt
	}

	return &Projection{
		Gross:    round(balance),
		Invested: round(invested),
		Profit:   round(profit),
		Tax:      round(due),
		Net:      round(balance - due),
		Kind:     kind,
		Months:   points,
	}, nil
}

// SimpleInterest projects initial under simple interest over years, as 13 evenly spaced points
func SimpleInterest(initial, annualRate decimal.Decimal, years int) (*Projection, error) {
	if err := validate(initial, decimal.Zero, annualRate, years); err != nil {
		return nil, err
	}

	principal := initial.InexactFloat64()
	interest := principal * annualRate.InexactFloat64() / 100 * float64(years)

	points := make([]MonthPoint, 0, 13)
	for i := 0; i <= 12; i++ {
		value := principal + interest*float64(i)/12
		points = append(points, MonthPoint{
			Month:    i,
			Gross:    round(value),
			Net:      round(value),
			Invested: round(principal),
			Interest: decimal.Zero,
		})
	}

	return &Projection{
		Gross:    round(principal + interest),
		Invested: round(principal),
		Profit:   round(interest),
		Tax:      decimal.Zero,
		Net:      round(principal + interest),
		Kind:     KindSimple,
		Months:   points,
	}, nil
}

// FirstMillion returns the monthly contribution needed to reach MillionTarget in years
func FirstMillion(initial, annualRate decimal.Decimal, years int) (*MillionPlan, error) {
	if err := validate(initial, decimal.Zero, annualRate, years); err != nil {
		return nil, err
	}

	months := years * 12
	if months == 0 {
		months = 1
	}

	monthlyRate := math.Pow(1+annualRate.InexactFloat64()/100, 1.0/12) - 1
	if monthlyRate == 0 {
		return &MillionPlan{MonthlyContribution: decimal.Zero, TotalInvested: decimal.Zero, TotalInterest: decimal.Zero}, nil
	}

	start := initial.InexactFloat64()
	growth := math.Pow(1+monthlyRate, float64(months))
	deficit := MillionTarget - start*growth

	if deficit <= 0 {
		return &MillionPlan{
			MonthlyContribution: decimal.Zero,
			TotalInvested:       round(start),
			TotalInterest:       round(MillionTarget - start),
		}, nil
	}

	contribution := deficit / ((growth - 1) / monthlyRate)
	invested := start + contribution*float64(months)

	return &MillionPlan{
		MonthlyContribution: round(contribution),
		TotalInvested:       round(invested),
		TotalInterest:       round(MillionTarget - invested),
	}, nil
}

// EmergencyReserve returns the reserve covering months of monthlyExpense.
// months <= 0 falls back to DefaultReserveMonths.
func EmergencyReserve(monthlyExpense decimal.Decimal, months int) (*Reserve, error) {
	if monthlyExpense.IsNegative() {
		return nil, fmt.Errorf("%w: monthly expense cannot be negative", domain.ErrInvalidInput)
	}
	if months <= 0 {
		months = DefaultReserveMonths
	}

	return &Reserve{
		Amount:      monthlyExpense.Mul(decimal.NewFromInt(int64(months))).Round(2),
		Description: fmt.Sprintf("Target for %d months of safety.", months),
	}, nil
}

// Scenario is one side of a comparison
type Scenario struct {
	AnnualRate decimal.Decimal
	Exempt     bool
}

// Compare projects the same savings plan under two scenarios.
// Net values closer than one cent are a Tie.
func Compare(initial, monthly decimal.Decimal, months int, a, b Scenario) (*Comparison, error) {
	projA, err := FixedIncome(initial, monthly, months, a.AnnualRate, a.Exempt)
	if err != nil {
		return nil, err
	}
	projB, err := FixedIncome(initial, monthly, months, b.AnnualRate, b.Exempt)
	if err != nil {
		return nil, err
	}

	diff := projA.Net.Sub(projB.Net)
	better := BetterB
	switch {
	case diff.Abs().LessThan(decimal.RequireFromString("0.01")):
		better = Tie
	case diff.IsPositive():
		better = BetterA
	}

	return &Comparison{A: projA, B: projB, Difference: diff.Abs().Round(2), Better: better}, nil
}

// CDI projects a taxable investment earning percentOfCDI of diRate
func CDI(initial, monthly decimal.Decimal, years int, percentOfCDI, diRate decimal.Decimal) (*Projection, error) {
	return FixedIncome(initial, monthly, years*12, ofReference(percentOfCDI, diRate), false)
}

// QuickFixedIncome compares a taxable CDB against an exempt LCI, both quoted as % of diRate
func QuickFixedIncome(initial decimal.Decimal, years int, cdbPercent, lciPercent, diRate decimal.Decimal) (*Comparison, error) {
	return Compare(initial, decimal.Zero, years*12,
		Scenario{AnnualRate: ofReference(cdbPercent, diRate), Exempt: false},
		Scenario{AnnualRate: ofReference(lciPercent, diRate), Exempt: true},
	)
}

func ofReference(percent, reference decimal.Decimal) decimal.Decimal {
	return reference.Mul(percent).Div(decimal.NewFromInt(100))
}

func incomeTax(profit float64, months int, exempt bool) float64 {
	if exempt || profit <= 0 {
		return 0
	}
	return profit * tax.IncomeRate(months*30).InexactFloat64()
}

func validate(initial, monthly, annualRate decimal.Decimal, periods int) error {
	if initial.IsNegative() || monthly.IsNegative() {
		return fmt.Errorf("%w: amounts cannot be negative", domain.ErrInvalidInput)
	}
	if annualRate.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", domain.ErrInvalidInput)
	}
	if periods < 0 {
		return fmt.Errorf("%w: period cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
