package grpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/balance"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/history"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/investment"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/projection"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/rates"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/withdrawal"
)

// Server implements PortfolioServer on top of the usecase services
type Server struct {
	InvestmentService *investment.InvestmentService
	BalanceService    *balance.BalanceService
	SimulatorService  *withdrawal.SimulatorService
	HistoryService    *history.HistoryService
	DashboardService  *dashboard.DashboardService
	ProjectionService *projection.ProjectionService
	Rates             *rates.Provider
	logger            zerolog.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(
	investmentService *investment.InvestmentService,
	balanceService *balance.BalanceService,
	simulatorService *withdrawal.SimulatorService,
	historyService *history.HistoryService,
	dashboardService *dashboard.DashboardService,
	projectionService *projection.ProjectionService,
	rateProvider *rates.Provider,
	logger zerolog.Logger,
) *Server {
	return &Server{
		InvestmentService: investmentService,
		BalanceService:    balanceService,
		SimulatorService:  simulatorService,
		HistoryService:    historyService,
		DashboardService:  dashboardService,
		ProjectionService: projectionService,
		Rates:             rateProvider,
		logger:            logger.With().Str("component", "grpc").Logger(),
	}
}

var _ PortfolioServer = (*Server)(nil)

// CreateHolding handles the CreateHolding RPC
func (s *Server) CreateHolding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	owner, err := req.owner(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := req.dec("rate")
	if err != nil {
		return nil, err
	}
	initialAmount, err := req.dec("initial_amount")
	if err != nil {
		return nil, err
	}
	initialQuantity, err := req.dec("initial_quantity")
	if err != nil {
		return nil, err
	}
	startedAt, err := req.when("started_at")
	if err != nil {
		return nil, err
	}

	holding, err := s.InvestmentService.CreateHolding(ctx, investment.CreateHoldingInput{
		Owner:           owner,
		Name:            req.str("name"),
		Category:        req.str("category"),
		IndexMode:       domain.IndexMode(req.str("index_mode")),
		Rate:            rate,
		Ticker:          req.str("ticker"),
		Exempt:          req.boolPtr("exempt"),
		InitialAmount:   initialAmount,
		InitialQuantity: initialQuantity,
		StartedAt:       startedAt,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return response{"holding": holdingToMap(holding)}.build()
}

// ListHoldings handles the ListHoldings RPC
func (s *Server) ListHoldings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := newRequest(in).owner(ctx)
	if err != nil {
		return nil, err
	}

	holdings, err := s.InvestmentService.ListHoldings(ctx, owner)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]interface{}, 0, len(holdings))
	for _, holding := range holdings {
		list = append(list, holdingToMap(holding))
	}
	return response{"holdings": list}.build()
}

// DeleteHolding handles the DeleteHolding RPC
func (s *Server) DeleteHolding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := newRequest(in).id("holding_id")
	if err != nil {
		return nil, err
	}

	if err := s.InvestmentService.DeleteHolding(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return response{"deleted": true}.build()
}

// RecordTransaction handles the RecordTransaction RPC
func (s *Server) RecordTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	holdingID, err := req.id("holding_id")
	if err != nil {
		return nil, err
	}
	amount, err := req.dec("amount")
	if err != nil {
		return nil, err
	}
	quantity, err := req.dec("quantity")
	if err != nil {
		return nil, err
	}
	timestamp, err := req.when("timestamp")
	if err != nil {
		return nil, err
	}

	tx, err := s.InvestmentService.RecordTransaction(ctx, investment.RecordTransactionInput{
		HoldingID: holdingID,
		Kind:      domain.TransactionKind(req.str("kind")),
		Amount:    amount,
		Quantity:  quantity,
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return response{"transaction": transactionToMap(tx)}.build()
}

// DeleteTransaction handles the DeleteTransaction RPC
func (s *Server) DeleteTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := newRequest(in).id("transaction_id")
	if err != nil {
		return nil, err
	}

	if err := s.InvestmentService.DeleteTransaction(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return response{"deleted": true}.build()
}

// RecomputeHolding handles the RecomputeHolding RPC
func (s *Server) RecomputeHolding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := newRequest(in).id("holding_id")
	if err != nil {
		return nil, err
	}

	result, err := s.BalanceService.RecomputeHolding(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"gross_value":   result.Gross.StringFixed(2),
		"estimated_tax": result.Tax.StringFixed(2),
		"net_value":     result.Net.StringFixed(2),
	}.build()
}

// SimulateWithdrawal handles the SimulateWithdrawal RPC
func (s *Server) SimulateWithdrawal(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	id, err := req.id("holding_id")
	if err != nil {
		return nil, err
	}
	amount, err := req.dec("amount")
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulatorService.Simulate(ctx, id, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return response(simulationToMap(sim)).build()
}

// RebuildHistory handles the RebuildHistory RPC
func (s *Server) RebuildHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := newRequest(in).owner(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.HistoryService.Rebuild(ctx, owner)
	if err != nil {
		return nil, mapError(err)
	}

	return response{"snapshots": snapshotsToList(snapshots)}.build()
}

// GetHistory handles the GetHistory RPC
func (s *Server) GetHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := newRequest(in).owner(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.HistoryService.History(ctx, owner)
	if err != nil {
		return nil, mapError(err)
	}

	return response{"snapshots": snapshotsToList(snapshots)}.build()
}

// GetNetWorth handles the GetNetWorth RPC
func (s *Server) GetNetWorth(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := newRequest(in).owner(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.DashboardService.GetNetWorth(ctx, owner)
	if err != nil {
		return nil, mapError(err)
	}

	return response(netWorthToMap(result)).build()
}

// AddLiability handles the AddLiability RPC
func (s *Server) AddLiability(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	owner, err := req.owner(ctx)
	if err != nil {
		return nil, err
	}
	original, err := req.dec("original")
	if err != nil {
		return nil, err
	}
	outstanding, err := req.dec("outstanding")
	if err != nil {
		return nil, err
	}
	annualRate, err := req.dec("annual_rate")
	if err != nil {
		return nil, err
	}
	installment, err := req.dec("installment")
	if err != nil {
		return nil, err
	}
	termMonths, err := req.num("term_months", 0)
	if err != nil {
		return nil, err
	}
	start, err := req.when("start")
	if err != nil {
		return nil, err
	}

	liability := &domain.Liability{
		Owner:       owner,
		Name:        req.str("name"),
		Kind:        req.str("kind"),
		Original:    original,
		Outstanding: outstanding,
		AnnualRate:  annualRate,
		TermMonths:  termMonths,
		Installment: installment,
		Start:       start,
		Status:      req.str("status"),
	}
	if err := s.DashboardService.AddLiability(ctx, liability); err != nil {
		return nil, mapError(err)
	}

	return response{"liability": liabilityToMap(liability)}.build()
}

// RemoveLiability handles the RemoveLiability RPC
func (s *Server) RemoveLiability(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := newRequest(in).id("liability_id")
	if err != nil {
		return nil, err
	}

	if err := s.DashboardService.RemoveLiability(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return response{"deleted": true}.build()
}

// RefreshPrices handles the RefreshPrices RPC
func (s *Server) RefreshPrices(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	report, err := s.InvestmentService.RefreshPrices(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"updated": report.Updated,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}.build()
}

// ProjectFixedIncome handles the ProjectFixedIncome RPC.
// A percent_of_cdi field projects against the current reference rate instead of annual_rate.
func (s *Server) ProjectFixedIncome(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	initial, err := req.dec("initial")
	if err != nil {
		return nil, err
	}
	monthly, err := req.dec("monthly")
	if err != nil {
		return nil, err
	}
	years, err := req.num("years", 1)
	if err != nil {
		return nil, err
	}
	months, err := req.num("months", years*12)
	if err != nil {
		return nil, err
	}

	var result *projection.Projection
	if req.has("percent_of_cdi") {
		percent, err := req.dec("percent_of_cdi")
		if err != nil {
			return nil, err
		}
		result, err = s.ProjectionService.CDIAtReference(ctx, initial, monthly, years, percent)
		if err != nil {
			return nil, mapError(err)
		}
	} else {
		annualRate, err := req.dec("annual_rate")
		if err != nil {
			return nil, err
		}
		result, err = projection.FixedIncome(initial, monthly, months, annualRate, req.flag("exempt"))
		if err != nil {
			return nil, mapError(err)
		}
	}

	return response(projectionToMap(result, req.flag("with_months"))).build()
}

// ProjectHolding handles the ProjectHolding RPC
func (s *Server) ProjectHolding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	id, err := req.id("holding_id")
	if err != nil {
		return nil, err
	}
	monthly, err := req.dec("monthly")
	if err != nil {
		return nil, err
	}
	years, err := req.num("years", 1)
	if err != nil {
		return nil, err
	}

	result, err := s.ProjectionService.ProjectHolding(ctx, id, monthly, years)
	if err != nil {
		return nil, mapError(err)
	}

	return response(projectionToMap(result, req.flag("with_months"))).build()
}

// CompareFixedIncome handles the CompareFixedIncome RPC: a taxable CDB against an exempt LCI
func (s *Server) CompareFixedIncome(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	initial, err := req.dec("initial")
	if err != nil {
		return nil, err
	}
	years, err := req.num("years", 1)
	if err != nil {
		return nil, err
	}
	cdbPercent, err := req.dec("cdb_percent")
	if err != nil {
		return nil, err
	}
	lciPercent, err := req.dec("lci_percent")
	if err != nil {
		return nil, err
	}

	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	comparison, err := projection.QuickFixedIncome(initial, years, cdbPercent, lciPercent, referenceRate)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"cdb":           projectionToMap(comparison.A, false),
		"lci":           projectionToMap(comparison.B, false),
		"difference":    comparison.Difference.StringFixed(2),
		"better":        comparison.Better,
		"reference_cdi": referenceRate.String(),
	}.build()
}

// PlanFirstMillion handles the PlanFirstMillion RPC
func (s *Server) PlanFirstMillion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	initial, err := req.dec("initial")
	if err != nil {
		return nil, err
	}
	annualRate, err := req.dec("annual_rate")
	if err != nil {
		return nil, err
	}
	years, err := req.num("years", 10)
	if err != nil {
		return nil, err
	}

	plan, err := projection.FirstMillion(initial, annualRate, years)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"monthly_contribution": plan.MonthlyContribution.StringFixed(2),
		"total_invested":       plan.TotalInvested.StringFixed(2),
		"total_interest":       plan.TotalInterest.StringFixed(2),
	}.build()
}

// PlanEmergencyReserve handles the PlanEmergencyReserve RPC
func (s *Server) PlanEmergencyReserve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	monthlyExpense, err := req.dec("monthly_expense")
	if err != nil {
		return nil, err
	}
	months, err := req.num("months", projection.DefaultReserveMonths)
	if err != nil {
		return nil, err
	}

	reserve, err := projection.EmergencyReserve(monthlyExpense, months)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"amount":      reserve.Amount.StringFixed(2),
		"description": reserve.Description,
	}.build()
}

// SetReferenceRate handles the SetReferenceRate RPC
func (s *Server) SetReferenceRate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	rate, err := newRequest(in).dec("rate")
	if err != nil {
		return nil, err
	}

	observation, err := s.Rates.Record(ctx, rate)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"name":           observation.Name,
		"rate":           observation.Rate.String(),
		"effective_date": observation.EffectiveDate.Format(dateLayout),
	}.build()
}

// GetReferenceRate handles the GetReferenceRate RPC
func (s *Server) GetReferenceRate(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	rate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return response{
		"name": domain.ReferenceRateCDI,
		"rate": rate.String(),
	}.build()
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrNotRateIndexed):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
