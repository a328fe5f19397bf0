package grpc

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-portfolio/internal/usecase/projection"
)

// OwnerMetadataKey carries the owner when the request body does not
const OwnerMetadataKey = "x-owner"

const dateLayout = "2006-01-02"

// request reads typed fields out of a structpb.Struct request
type request struct {
	fields map[string]*structpb.Value
}

func newRequest(req *structpb.Struct) request {
	return request{fields: req.GetFields()}
}

func (r request) has(key string) bool {
	v, ok := r.fields[key]
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (r request) str(key string) string {
	v, ok := r.fields[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(kind.StringValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		return ""
	}
}

func (r request) id(key string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.str(key))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return id, nil
}

// dec accepts both decimal strings and JSON numbers; an absent field is zero
func (r request) dec(key string) (decimal.Decimal, error) {
	raw := r.str(key)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return d, nil
}

func (r request) num(key string, fallback int) (int, error) {
	raw := r.str(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return n, nil
}

func (r request) flag(key string) bool {
	v, ok := r.fields[key]
	if !ok {
		return false
	}
	if b, isBool := v.GetKind().(*structpb.Value_BoolValue); isBool {
		return b.BoolValue
	}
	parsed, _ := strconv.ParseBool(r.str(key))
	return parsed
}

// boolPtr returns nil when the field is absent
func (r request) boolPtr(key string) *bool {
	if !r.has(key) {
		return nil
	}
	b := r.flag(key)
	return &b
}

// when accepts RFC3339 timestamps or plain dates; an absent field is the zero time
func (r request) when(key string) (time.Time, error) {
	raw := r.str(key)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s format: expected RFC3339 or YYYY-MM-DD", key)
	}
	return t, nil
}

// owner reads the owner from the request body, falling back to x-owner metadata
func (r request) owner(ctx context.Context) (string, error) {
	if owner := r.str("owner"); owner != "" {
		return owner, nil
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(OwnerMetadataKey); len(values) > 0 && values[0] != "" {
			return values[0], nil
		}
	}
	return "", status.Error(codes.InvalidArgument, "owner is required")
}

// response builds a structpb.Struct; only types structpb.NewValue accepts may be stored
type response map[string]interface{}

func (r response) build() (*structpb.Struct, error) {
	out, err := structpb.NewStruct(r)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func holdingToMap(h *domain.Holding) map[string]interface{} {
	return map[string]interface{}{
		"id":            h.ID.String(),
		"owner":         h.Owner,
		"name":          h.Name,
		"category":      h.Category,
		"index_mode":    string(h.IndexMode),
		"rate":          h.Rate.String(),
		"ticker":        h.Ticker,
		"exempt":        h.Exempt,
		"status":        h.Status,
		"gross_value":   h.GrossValue.StringFixed(2),
		"estimated_tax": h.EstimatedTax.StringFixed(2),
		"net_value":     h.NetValue.StringFixed(2),
	}
}

func transactionToMap(tx *domain.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"id":              tx.ID.String(),
		"holding_id":      tx.HoldingID.String(),
		"timestamp":       tx.Timestamp.Format(time.RFC3339),
		"kind":            string(tx.Kind),
		"amount":          tx.Amount.String(),
		"quantity":        tx.Quantity.String(),
		"realized_profit": tx.RealizedProfit.StringFixed(2),
		"short_term_tax":  tx.ShortTermTax.StringFixed(2),
		"income_tax":      tx.IncomeTax.StringFixed(2),
		"net_amount":      tx.NetAmount.StringFixed(2),
	}
}

func snapshotsToList(snapshots []domain.Snapshot) []interface{} {
	list := make([]interface{}, 0, len(snapshots))
	for _, s := range snapshots {
		list = append(list, map[string]interface{}{
			"timestamp": s.Timestamp.Format(time.RFC3339),
			"gross":     s.Gross.StringFixed(2),
			"invested":  s.Invested.StringFixed(2),
			"inflow":    s.Inflow.StringFixed(2),
			"outflow":   s.Outflow.StringFixed(2),
		})
	}
	return list
}

func simulationToMap(sim *domain.WithdrawalSimulation) map[string]interface{} {
	details := make([]interface{}, 0, len(sim.Details))
	for _, line := range sim.Details {
		details = append(details, line)
	}
	return map[string]interface{}{
		"gross":           sim.Gross.StringFixed(2),
		"net":             sim.Net.StringFixed(2),
		"total_tax":       sim.TotalTax.StringFixed(2),
		"short_term_tax":  sim.ShortTermTax.StringFixed(2),
		"income_tax":      sim.IncomeTax.StringFixed(2),
		"realized_profit": sim.RealizedProfit.StringFixed(2),
		"details":         details,
	}
}

func netWorthToMap(nw *dashboard.NetWorthResult) map[string]interface{} {
	byCategory := make(map[string]interface{}, len(nw.ByCategory))
	for category, gross := range nw.ByCategory {
		byCategory[category] = gross.StringFixed(2)
	}
	return map[string]interface{}{
		"gross":         nw.Gross.StringFixed(2),
		"estimated_tax": nw.EstimatedTax.StringFixed(2),
		"net":           nw.Net.StringFixed(2),
		"liabilities":   nw.Liabilities.StringFixed(2),
		"net_worth":     nw.NetWorth.StringFixed(2),
		"by_category":   byCategory,
	}
}

func liabilityToMap(l *domain.Liability) map[string]interface{} {
	return map[string]interface{}{
		"id":          l.ID.String(),
		"owner":       l.Owner,
		"name":        l.Name,
		"kind":        l.Kind,
		"original":    l.Original.StringFixed(2),
		"outstanding": l.Outstanding.StringFixed(2),
		"annual_rate": l.AnnualRate.String(),
		"term_months": l.TermMonths,
		"installment": l.Installment.StringFixed(2),
		"start":       l.Start.Format(dateLayout),
		"status":      l.Status,
	}
}

// projectionToMap includes the monthly series only when withMonths is set
func projectionToMap(p *projection.Projection, withMonths bool) map[string]interface{} {
	out := map[string]interface{}{
		"gross":    p.Gross.StringFixed(2),
		"invested": p.Invested.StringFixed(2),
		"profit":   p.Profit.StringFixed(2),
		"tax":      p.Tax.StringFixed(2),
		"net":      p.Net.StringFixed(2),
		"kind":     p.Kind,
	}
	if withMonths {
		months := make([]interface{}, 0, len(p.Months))
		for _, m := range p.Months {
			months = append(months, map[string]interface{}{
				"month":    m.Month,
				"gross":    m.Gross.StringFixed(2),
				"net":      m.Net.StringFixed(2),
				"invested": m.Invested.StringFixed(2),
				"interest": m.Interest.StringFixed(2),
			})
		}
		out["months"] = months
	}
	return out
}
