package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FailureService exposes the fulfillment failure log for back-office review
type FailureService struct {
	repo   fulfillment.FailureRepository
	logger *zap.Logger
}

// NewFailureService creates a new FailureService
func NewFailureService(repo fulfillment.FailureRepository, logger *zap.Logger) *FailureService {
	return &FailureService{
		repo:   repo,
		logger: logger,
	}
}

// FailureListFilter represents filter parameters for listing failures
type FailureListFilter struct {
	Page     int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
	Consumer string `form:"consumer,omitempty" binding:"omitempty,oneof=inventory ledger"`
}

// FailureResponse represents a fulfillment failure in API responses
type FailureResponse struct {
	ID          uuid.UUID `json:"id"`
	Consumer    string    `json:"consumer"`
	OrderID     uuid.UUID `json:"order_id"`
	EventID     uuid.UUID `json:"event_id"`
	EventType   string    `json:"event_type"`
	ErrorCode  string    `json:"error_code"`
	ErrorMsg   string    `json:"error_msg"`
	Payload    string    `json:"payload,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// FailureListResult represents a paginated failure list
type FailureListResult struct {
	Failures   []FailureResponse `json:"failures"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// List retrieves failures for a shop with pagination
func (s *FailureService) List(ctx context.Context, shopID uuid.UUID, filter FailureListFilter) (*FailureListResult, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Consumer != "" {
		domainFilter.Filters["consumer"] = filter.Consumer
	}

	failures, total, err := s.repo.FindAll(ctx, shopID, domainFilter)
	if err != nil {
		s.logger.Error("Failed to list fulfillment failures", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retrieve fulfillment failures")
	}

	totalPages := int(total) / domainFilter.PageSize
	if int(total)%domainFilter.PageSize > 0 {
		totalPages++
	}

	responses := make([]FailureResponse, len(failures))
	for i := range failures {
		responses[i] = toFailureResponse(&failures[i])
	}

	return &FailureListResult{
		Failures:   responses,
		Total:      total,
		Page:       domainFilter.Page,
		PageSize:   domainFilter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListByOrder retrieves all failures recorded for one order
func (s *FailureService) ListByOrder(ctx context.Context, shopID, orderID uuid.UUID) ([]FailureResponse, error) {
	failures, err := s.repo.FindByOrder(ctx, shopID, orderID)
	if err != nil {
		s.logger.Error("Failed to list failures for order",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retrieve fulfillment failures")
	}

	responses := make([]FailureResponse, len(failures))
	for i := range failures {
		responses[i] = toFailureResponse(&failures[i])
	}
	return responses, nil
}

func toFailureResponse(f *fulfillment.Failure) FailureResponse {
	return FailureResponse{
		ID:         f.ID,
		Consumer:   f.Consumer,
		OrderID:    f.OrderID,
		EventID:    f.EventID,
		EventType:  f.EventType,
		ErrorCode:  f.ErrorCode,
		ErrorMsg:   f.ErrorMsg,
		Payload:    string(f.Payload),
		OccurredAt: f.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
