package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/application/usecase"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/pkg/auth"
)

var errBenchmarkStoreDisabled = status.Error(codes.Unimplemented, "benchmark rate store is not configured")

// tenantFromContext returns the caller's tenant, or "" for tokens without one.
func tenantFromContext(ctx context.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	if claims.TenantID == uuid.Nil {
		return "", nil
	}
	return claims.TenantID.String(), nil
}

// Compile-time assertion that Handler implements AmortizationServiceServer.
var _ AmortizationServiceServer = (*Handler)(nil)

// Handler implements the AmortizationServiceServer gRPC interface.
type Handler struct {
	UnimplementedAmortizationServiceServer
	calculate     *usecase.CalculateScheduleUseCase
	apr           *usecase.ComputeAPRUseCase
	saveBenchmark *usecase.SaveBenchmarkRatesUseCase
	getBenchmark  *usecase.GetBenchmarkRatesUseCase
	logger        *slog.Logger
}

// NewHandler creates a new gRPC Handler. The benchmark use cases may be nil
// when no rate store is configured.
func NewHandler(
	calculate *usecase.CalculateScheduleUseCase,
	apr *usecase.ComputeAPRUseCase,
	saveBenchmark *usecase.SaveBenchmarkRatesUseCase,
	getBenchmark *usecase.GetBenchmarkRatesUseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		calculate:     calculate,
		apr:           apr,
		saveBenchmark: saveBenchmark,
		getBenchmark:  getBenchmark,
		logger:        logger,
	}
}

// Proto-aligned request/response message types.

// CalculateScheduleRequest represents the proto CalculateScheduleRequest message.
type CalculateScheduleRequest struct {
	Credit      *dto.CreditTerms `json:"credit"`
	RatePeriods []dto.RatePeriod `json:"rate_periods"`
	Benchmark   string           `json:"benchmark"`
	IncludeLog  bool             `json:"include_log"`
}

// CalculateScheduleResponse represents the proto CalculateScheduleResponse message.
type CalculateScheduleResponse struct {
	Schedule *dto.ScheduleResponse `json:"schedule"`
}

// ComputeAPRRequest represents the proto ComputeAPRRequest message.
type ComputeAPRRequest struct {
	Credit      *dto.CreditTerms `json:"credit"`
	Payments    []dto.Payment    `json:"payments"`
	RatePeriods []dto.RatePeriod `json:"rate_periods"`
	Benchmark   string           `json:"benchmark"`
}

// ComputeAPRResponse represents the proto ComputeAPRResponse message.
type ComputeAPRResponse struct {
	APR          string `json:"apr"`
	Disbursement string `json:"disbursement"`
	PaymentCount int32  `json:"payment_count"`
}

// SaveBenchmarkRatesRequest represents the proto SaveBenchmarkRatesRequest message.
type SaveBenchmarkRatesRequest struct {
	Name    string           `json:"name"`
	Periods []dto.RatePeriod `json:"periods"`
}

// SaveBenchmarkRatesResponse represents the proto SaveBenchmarkRatesResponse message.
type SaveBenchmarkRatesResponse struct {
	Benchmark *dto.BenchmarkRatesResponse `json:"benchmark"`
}

// GetBenchmarkRatesRequest represents the proto GetBenchmarkRatesRequest message.
type GetBenchmarkRatesRequest struct {
	Name string `json:"name"`
}

// GetBenchmarkRatesResponse represents the proto GetBenchmarkRatesResponse message.
type GetBenchmarkRatesResponse struct {
	Benchmark *dto.BenchmarkRatesResponse `json:"benchmark"`
}

// CalculateSchedule returns the full repayment schedule of a credit.
func (h *Handler) CalculateSchedule(ctx context.Context, req *CalculateScheduleRequest) (*CalculateScheduleResponse, error) {
	if req == nil || req.Credit == nil {
		return nil, status.Error(codes.InvalidArgument, "credit is required")
	}
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.calculate.Execute(ctx, dto.CalculateScheduleRequest{
		TenantID:    tenantID,
		Credit:      *req.Credit,
		RatePeriods: req.RatePeriods,
		Benchmark:   req.Benchmark,
		IncludeLog:  req.IncludeLog,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CalculateSchedule", err)
	}
	return &CalculateScheduleResponse{Schedule: &resp}, nil
}

// ComputeAPR returns the annual percentage rate of a credit.
func (h *Handler) ComputeAPR(ctx context.Context, req *ComputeAPRRequest) (*ComputeAPRResponse, error) {
	if req == nil || req.Credit == nil {
		return nil, status.Error(codes.InvalidArgument, "credit is required")
	}
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.apr.Execute(ctx, dto.ComputeAPRRequest{
		TenantID:    tenantID,
		Credit:      *req.Credit,
		Payments:    req.Payments,
		RatePeriods: req.RatePeriods,
		Benchmark:   req.Benchmark,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "ComputeAPR", err)
	}
	return &ComputeAPRResponse{
		APR:          resp.APR.String(),
		Disbursement: resp.Disbursement.String(),
		PaymentCount: int32(resp.PaymentCount),
	}, nil
}

// SaveBenchmarkRates stores a named base-rate timeline.
func (h *Handler) SaveBenchmarkRates(ctx context.Context, req *SaveBenchmarkRatesRequest) (*SaveBenchmarkRatesResponse, error) {
	if h.saveBenchmark == nil {
		return nil, errBenchmarkStoreDisabled
	}
	if req == nil || req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.saveBenchmark.Execute(ctx, dto.SaveBenchmarkRatesRequest{
		TenantID: tenantID,
		Name:     req.Name,
		Periods:  req.Periods,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "SaveBenchmarkRates", err)
	}
	return &SaveBenchmarkRatesResponse{Benchmark: &resp}, nil
}

// GetBenchmarkRates returns a stored benchmark.
func (h *Handler) GetBenchmarkRates(ctx context.Context, req *GetBenchmarkRatesRequest) (*GetBenchmarkRatesResponse, error) {
	if h.getBenchmark == nil {
		return nil, errBenchmarkStoreDisabled
	}
	if req == nil || req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.getBenchmark.Execute(ctx, dto.GetBenchmarkRatesRequest{TenantID: tenantID, Name: req.Name})
	if err != nil {
		return nil, h.toStatus(ctx, "GetBenchmarkRates", err)
	}
	return &GetBenchmarkRatesResponse{Benchmark: &resp}, nil
}

// toStatus maps domain errors onto gRPC codes. Only internal failures are
// logged; their detail is not returned to the caller.
func (h *Handler) toStatus(ctx context.Context, method string, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, model.ErrBenchmarkNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrNegativeAmortization):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		h.logger.ErrorContext(ctx, method+" failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
