package usecase

import (
	"context"
	"fmt"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/data/repository"
	"library-management/internal/dto/request"
	"library-management/internal/dto/response"
	"library-management/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// checkoutDefaultDays is the loan period applied when no due date is given.
	checkoutDefaultDays = 14
	// checkoutMaxExtensionDays caps a single extension.
	checkoutMaxExtensionDays = 14
	// checkoutMaxRenewals caps how many full extensions a loan can absorb:
	// the due date can never land past checked_out_at + default + max*renewals.
	checkoutMaxRenewals = 2
)

type CheckoutService interface {
	CreateCheckout(ctx context.Context, requesterID uuid.UUID, isAdmin bool, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error)
	GetCheckoutByID(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*response.CheckoutResponse, error)
	GetAllCheckouts(ctx context.Context, requesterID uuid.UUID, isAdmin bool, req *request.ListCheckoutsRequest) (*response.PaginatedResponse[response.CheckoutResponse], error)
	UpdateCheckout(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, req *request.UpdateCheckoutRequest) (*response.CheckoutResponse, error)
	DeleteCheckout(ctx context.Context, id uuid.UUID) error
}

type checkoutService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCheckoutService(repo *repository.Repository, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo: repo,
		log:  log.With(zap.String("service", "checkout")),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, requesterID uuid.UUID, isAdmin bool, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookID, err := utils.ParseUUID(req.BookID)
	if err != nil {
		return nil, fmt.Errorf("invalid book ID")
	}

	memberID := requesterID
	if req.MemberID != nil && *req.MemberID != requesterID.String() {
		if !isAdmin {
			return nil, fmt.Errorf("cannot check out for another member")
		}
		memberID, err = utils.ParseUUID(*req.MemberID)
		if err != nil {
			return nil, fmt.Errorf("invalid member ID")
		}
		member, err := s.repo.Member.FindByID(ctx, memberID)
		if err != nil {
			s.log.Error("Failed to find member", zap.Error(err), zap.String("member_id", memberID.String()))
			return nil, fmt.Errorf("failed to find member")
		}
		if member == nil {
			return nil, fmt.Errorf("member not found")
		}
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", bookID.String()))
		return nil, fmt.Errorf("failed to find book")
	}
	if book == nil {
		return nil, fmt.Errorf("book not found")
	}

	existing, err := s.repo.Checkout.FindActiveByBookAndMember(ctx, bookID, memberID)
	if err != nil {
		s.log.Error("Failed to check existing checkout", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing checkout")
	}
	if existing != nil {
		return nil, fmt.Errorf("book already checked out by member")
	}

	// The guarded decrement doubles as the availability check: it fails when
	// no copies are left, including under concurrent checkouts.
	if err := s.repo.Book.AdjustAvailableCopies(ctx, bookID, -1); err != nil {
		s.log.Warn("No available copies", zap.Error(err), zap.String("book_id", bookID.String()))
		return nil, fmt.Errorf("no available copies")
	}

	now := s.now()
	dueAt := now.AddDate(0, 0, checkoutDefaultDays)
	if req.DueAt != nil {
		if req.DueAt.Before(now) {
			// Undo the reservation before rejecting.
			if adjErr := s.repo.Book.AdjustAvailableCopies(ctx, bookID, 1); adjErr != nil {
				s.log.Error("Failed to restore copy count", zap.Error(adjErr), zap.String("book_id", bookID.String()))
			}
			return nil, fmt.Errorf("due date must be in the future")
		}
		dueAt = req.DueAt.UTC()
	}

	checkout := &entity.Checkout{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookID:       bookID,
		MemberID:     memberID,
		Status:       entity.CheckoutStatusCheckedOut,
		CheckedOutAt: now,
		DueAt:        dueAt,
		Notes:        req.Notes,
	}

	if err := s.repo.Checkout.Create(ctx, checkout); err != nil {
		s.log.Error("Failed to create checkout", zap.Error(err))
		if adjErr := s.repo.Book.AdjustAvailableCopies(ctx, bookID, 1); adjErr != nil {
			s.log.Error("Failed to restore copy count", zap.Error(adjErr), zap.String("book_id", bookID.String()))
		}
		return nil, fmt.Errorf("failed to create checkout")
	}

	s.log.Info("Checkout created",
		zap.String("checkout_id", checkout.ID.String()),
		zap.String("book_id", bookID.String()),
		zap.String("member_id", memberID.String()))

	resp := response.CheckoutToResponse(checkout)
	return &resp, nil
}

// markOverdueIfDue flips a past-due live loan to overdue. The detection is
// lazy: there is no background scan, reads do the marking.
func (s *checkoutService) markOverdueIfDue(ctx context.Context, checkout *entity.Checkout) {
	if checkout.Status != entity.CheckoutStatusCheckedOut || !checkout.DueAt.Before(s.now()) {
		return
	}

	checkout.Status = entity.CheckoutStatusOverdue
	checkout.UpdatedAt = s.now()
	if err := s.repo.Checkout.Update(ctx, checkout); err != nil {
		s.log.Warn("Failed to persist overdue status",
			zap.Error(err),
			zap.String("checkout_id", checkout.ID.String()))
	}
}

func (s *checkoutService) GetCheckoutByID(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*response.CheckoutResponse, error) {
	checkout, err := s.repo.Checkout.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return nil, fmt.Errorf("failed to find checkout")
	}
	if checkout == nil {
		return nil, fmt.Errorf("checkout not found")
	}
	if !isAdmin && checkout.MemberID != requesterID {
		return nil, fmt.Errorf("checkout not found")
	}

	s.markOverdueIfDue(ctx, checkout)

	resp := response.CheckoutToResponse(checkout)
	return &resp, nil
}

func (s *checkoutService) GetAllCheckouts(ctx context.Context, requesterID uuid.UUID, isAdmin bool, req *request.ListCheckoutsRequest) (*response.PaginatedResponse[response.CheckoutResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List checkouts validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.CheckoutFilter{
		Search:  req.Search,
		DueFrom: req.DueFrom,
		DueTo:   req.DueTo,
	}

	if req.Status != nil {
		// "active" is shorthand for both live statuses.
		if *req.Status == "active" {
			filter.Statuses = []entity.CheckoutStatus{entity.CheckoutStatusCheckedOut, entity.CheckoutStatusOverdue}
		} else {
			filter.Statuses = []entity.CheckoutStatus{entity.CheckoutStatus(*req.Status)}
		}
	}
	if req.BookID != nil {
		bookID, err := utils.ParseUUID(*req.BookID)
		if err != nil {
			return nil, fmt.Errorf("invalid book ID")
		}
		filter.BookID = &bookID
	}

	// Non-admins only ever see their own loans, whatever the filter says.
	if isAdmin {
		if req.MemberID != nil {
			memberID, err := utils.ParseUUID(*req.MemberID)
			if err != nil {
				return nil, fmt.Errorf("invalid member ID")
			}
			filter.MemberID = &memberID
		}
	} else {
		filter.MemberID = &requesterID
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit()
	offset := utils.CalculateOffset(page, limit)

	checkouts, err := s.repo.Checkout.FindAll(ctx, limit, offset, filter)
	if err != nil {
		s.log.Error("Failed to list checkouts", zap.Error(err))
		return nil, fmt.Errorf("failed to list checkouts")
	}

	total, err := s.repo.Checkout.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count checkouts", zap.Error(err))
		return nil, fmt.Errorf("failed to count checkouts")
	}

	items := make([]response.CheckoutResponse, 0, len(checkouts))
	for _, checkout := range checkouts {
		s.markOverdueIfDue(ctx, checkout)
		items = append(items, response.CheckoutToResponse(checkout))
	}

	return response.NewPaginatedResponse(items, page, limit, total), nil
}

func (s *checkoutService) UpdateCheckout(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, req *request.UpdateCheckoutRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	checkout, err := s.repo.Checkout.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return nil, fmt.Errorf("failed to find checkout")
	}
	if checkout == nil {
		return nil, fmt.Errorf("checkout not found")
	}
	if !isAdmin && checkout.MemberID != requesterID {
		return nil, fmt.Errorf("checkout not found")
	}

	s.markOverdueIfDue(ctx, checkout)

	now := s.now()
	switch req.Action {
	case "return":
		if !checkout.Status.Active() {
			return nil, fmt.Errorf("checkout is not active")
		}
		checkout.Status = entity.CheckoutStatusReturned
		checkout.ReturnedAt = &now
		if err := s.repo.Book.AdjustAvailableCopies(ctx, checkout.BookID, 1); err != nil {
			s.log.Error("Failed to restore copy count", zap.Error(err), zap.String("book_id", checkout.BookID.String()))
		}

	case "extend":
		if checkout.Status == entity.CheckoutStatusOverdue {
			return nil, fmt.Errorf("overdue checkout cannot be extended")
		}
		if checkout.Status != entity.CheckoutStatusCheckedOut {
			return nil, fmt.Errorf("checkout is not active")
		}

		newDue := checkout.DueAt.AddDate(0, 0, checkoutDefaultDays)
		if req.NewDueAt != nil {
			newDue = req.NewDueAt.UTC()
		} else if req.Days != nil {
			newDue = checkout.DueAt.AddDate(0, 0, *req.Days)
		}

		if !newDue.After(checkout.DueAt) {
			return nil, fmt.Errorf("new due date must be after current due date")
		}
		if newDue.After(checkout.DueAt.AddDate(0, 0, checkoutMaxExtensionDays)) {
			return nil, fmt.Errorf("extension exceeds %d days", checkoutMaxExtensionDays)
		}
		maxDue := checkout.CheckedOutAt.AddDate(0, 0, checkoutDefaultDays+checkoutMaxExtensionDays*checkoutMaxRenewals)
		if newDue.After(maxDue) {
			return nil, fmt.Errorf("loan period limit reached")
		}
		checkout.DueAt = newDue

	case "cancel":
		if !checkout.Status.Active() {
			return nil, fmt.Errorf("checkout is not active")
		}
		checkout.Status = entity.CheckoutStatusCancelled
		if err := s.repo.Book.AdjustAvailableCopies(ctx, checkout.BookID, 1); err != nil {
			s.log.Error("Failed to restore copy count", zap.Error(err), zap.String("book_id", checkout.BookID.String()))
		}

	case "mark_lost":
		if !isAdmin {
			return nil, fmt.Errorf("only admins can mark a checkout lost")
		}
		if !checkout.Status.Active() {
			return nil, fmt.Errorf("checkout is not active")
		}
		// A lost copy stays out of circulation, so the count is not restored.
		checkout.Status = entity.CheckoutStatusLost

	default:
		return nil, fmt.Errorf("unknown action %s", req.Action)
	}

	if req.Notes != nil {
		checkout.Notes = req.Notes
	}
	checkout.UpdatedAt = now

	if err := s.repo.Checkout.Update(ctx, checkout); err != nil {
		s.log.Error("Failed to update checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return nil, fmt.Errorf("failed to update checkout")
	}

	s.log.Info("Checkout updated",
		zap.String("checkout_id", checkout.ID.String()),
		zap.String("action", req.Action),
		zap.String("status", string(checkout.Status)))

	resp := response.CheckoutToResponse(checkout)
	return &resp, nil
}

func (s *checkoutService) DeleteCheckout(ctx context.Context, id uuid.UUID) error {
	checkout, err := s.repo.Checkout.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return fmt.Errorf("failed to find checkout")
	}
	if checkout == nil {
		return fmt.Errorf("checkout not found")
	}

	if checkout.Status.Active() {
		if err := s.repo.Book.AdjustAvailableCopies(ctx, checkout.BookID, 1); err != nil {
			s.log.Error("Failed to restore copy count", zap.Error(err), zap.String("book_id", checkout.BookID.String()))
		}
	}

	if err := s.repo.Checkout.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return fmt.Errorf("failed to delete checkout")
	}

	s.log.Info("Checkout deleted", zap.String("checkout_id", id.String()))
	return nil
}
