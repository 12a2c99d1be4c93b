package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/data/repository"
	"library-management/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*entity.Book)}
}

func (f *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, book := range f.books {
		if book.ISBN != nil && *book.ISBN == isbn {
			copied := *book
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookRepo) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []*entity.Book
	for _, book := range f.books {
		copied := *book
		books = append(books, &copied)
	}
	return books, nil
}

func (f *fakeBookRepo) CountAll(ctx context.Context, search *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.books)), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[book.ID]; !ok {
		return fmt.Errorf("book %s not found", book.ID.String())
	}
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	book, ok := f.books[id]
	if !ok || book.AvailableCopies+delta < 0 {
		return fmt.Errorf("book %s not found or insufficient copies", id.String())
	}
	book.AvailableCopies += delta
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return fmt.Errorf("book %s not found", id.String())
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) copies(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[id].AvailableCopies
}

type fakeCheckoutRepo struct {
	mu        sync.Mutex
	checkouts map[uuid.UUID]*entity.Checkout
}

func newFakeCheckoutRepo() *fakeCheckoutRepo {
	return &fakeCheckoutRepo{checkouts: make(map[uuid.UUID]*entity.Checkout)}
}

func (f *fakeCheckoutRepo) Create(ctx context.Context, checkout *entity.Checkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *checkout
	f.checkouts[checkout.ID] = &stored
	return nil
}

func (f *fakeCheckoutRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.checkouts[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeCheckoutRepo) FindActiveByBookAndMember(ctx context.Context, bookID, memberID uuid.UUID) (*entity.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, checkout := range f.checkouts {
		if checkout.BookID == bookID && checkout.MemberID == memberID && checkout.Status.Active() {
			copied := *checkout
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCheckoutRepo) matches(checkout *entity.Checkout, filter repository.CheckoutFilter) bool {
	if filter.MemberID != nil && checkout.MemberID != *filter.MemberID {
		return false
	}
	if filter.BookID != nil && checkout.BookID != *filter.BookID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if checkout.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeCheckoutRepo) FindAll(ctx context.Context, limit, offset int, filter repository.CheckoutFilter) ([]*entity.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var checkouts []*entity.Checkout
	for _, checkout := range f.checkouts {
		if f.matches(checkout, filter) {
			copied := *checkout
			checkouts = append(checkouts, &copied)
		}
	}
	return checkouts, nil
}

func (f *fakeCheckoutRepo) CountAll(ctx context.Context, filter repository.CheckoutFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, checkout := range f.checkouts {
		if f.matches(checkout, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCheckoutRepo) Update(ctx context.Context, checkout *entity.Checkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.checkouts[checkout.ID]; !ok {
		return fmt.Errorf("checkout %s not found", checkout.ID.String())
	}
	stored := *checkout
	f.checkouts[checkout.ID] = &stored
	return nil
}

func (f *fakeCheckoutRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.checkouts[id]; !ok {
		return fmt.Errorf("checkout %s not found", id.String())
	}
	delete(f.checkouts, id)
	return nil
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*entity.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID]*entity.Member)}
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *entity.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *member
	f.members[member.ID] = &stored
	return nil
}

func (f *fakeMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.members[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, member := range f.members {
		if member.Email == email {
			copied := *member
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []*entity.Member
	for _, member := range f.members {
		copied := *member
		members = append(members, &copied)
	}
	return members, nil
}

func (f *fakeMemberRepo) CountAll(ctx context.Context, search *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.members)), nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, member *entity.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[member.ID]; !ok {
		return fmt.Errorf("member %s not found", member.ID.String())
	}
	stored := *member
	f.members[member.ID] = &stored
	return nil
}

func (f *fakeMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return fmt.Errorf("member %s not found", id.String())
	}
	delete(f.members, id)
	return nil
}

type checkoutFixture struct {
	books     *fakeBookRepo
	checkouts *fakeCheckoutRepo
	members   *fakeMemberRepo
	service   *checkoutService
	now       time.Time
	member    *entity.Member
	book      *entity.Book
}

func setupCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	books := newFakeBookRepo()
	checkouts := newFakeCheckoutRepo()
	members := newFakeMemberRepo()

	repo := &repository.Repository{
		Member:   members,
		Book:     books,
		Checkout: checkouts,
		Session:  newFakeSessionRepo(),
	}

	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	service := NewCheckoutService(repo, zap.NewNop()).(*checkoutService)
	service.now = func() time.Time { return now }

	member := &entity.Member{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        "reader@example.com",
		DisplayName:  "Reader",
		Role:         entity.RoleUser,
	}
	require.NoError(t, members.Create(context.Background(), member))

	book := &entity.Book{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:           "The Go Programming Language",
		Author:          "Donovan and Kernighan",
		AvailableCopies: 2,
	}
	require.NoError(t, books.Create(context.Background(), book))

	return &checkoutFixture{
		books:     books,
		checkouts: checkouts,
		members:   members,
		service:   service,
		now:       now,
		member:    member,
		book:      book,
	}
}

func TestCreateCheckoutDefaultDueDate(t *testing.T) {
	f := setupCheckoutFixture(t)

	resp, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatusCheckedOut, resp.Status)
	assert.Equal(t, f.now.AddDate(0, 0, checkoutDefaultDays), resp.DueAt)
	assert.Equal(t, 1, f.books.copies(f.book.ID))
}

func TestCreateCheckoutRejectsDoubleCheckout(t *testing.T) {
	f := setupCheckoutFixture(t)

	_, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already checked out")

	// The failed attempt must not leak a copy.
	assert.Equal(t, 1, f.books.copies(f.book.ID))
}

func TestCreateCheckoutNoCopiesLeft(t *testing.T) {
	f := setupCheckoutFixture(t)
	f.book.AvailableCopies = 0
	require.NoError(t, f.books.Update(context.Background(), f.book))

	_, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available copies")
}

func TestCreateCheckoutOnBehalfRequiresAdmin(t *testing.T) {
	f := setupCheckoutFixture(t)

	other := &entity.Member{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: f.now, UpdatedAt: f.now},
		Email:        "other@example.com",
		DisplayName:  "Other",
		Role:         entity.RoleUser,
	}
	require.NoError(t, f.members.Create(context.Background(), other))

	otherID := other.ID.String()

	_, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID:   f.book.ID.String(),
		MemberID: &otherID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another member")

	resp, err := f.service.CreateCheckout(context.Background(), f.member.ID, true, &request.CreateCheckoutRequest{
		BookID:   f.book.ID.String(),
		MemberID: &otherID,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID.String(), resp.MemberID)
}

func TestReturnCheckoutRestoresCopy(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.books.copies(f.book.ID))

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	updated, err := f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "return",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatusReturned, updated.Status)
	require.NotNil(t, updated.ReturnedAt)
	assert.Equal(t, f.now, *updated.ReturnedAt)
	assert.Equal(t, 2, f.books.copies(f.book.ID))

	// Returning twice is a rule violation, not an idempotent no-op.
	_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "return",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestExtendCheckoutWithinLimits(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	days := 7
	updated, err := f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "extend",
		Days:   &days,
	})
	require.NoError(t, err)
	assert.Equal(t, created.DueAt.AddDate(0, 0, 7), updated.DueAt)
}

func TestExtendCheckoutCapsPerExtension(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	days := checkoutMaxExtensionDays + 1
	_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "extend",
		Days:   &days,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestExtendCheckoutCapsTotalLoanPeriod(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	days := checkoutMaxExtensionDays
	for i := 0; i < checkoutMaxRenewals; i++ {
		_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
			Action: "extend",
			Days:   &days,
		})
		require.NoError(t, err)
	}

	// A third full extension lands past the lifetime cap.
	one := 1
	_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "extend",
		Days:   &one,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit reached")
}

func TestExtendBlockedWhenOverdue(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	// Jump the clock past the due date; the read should flip it to overdue.
	f.service.now = func() time.Time { return f.now.AddDate(0, 0, checkoutDefaultDays+1) }

	fetched, err := f.service.GetCheckoutByID(context.Background(), f.member.ID, false, id)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatusOverdue, fetched.Status)

	days := 7
	_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "extend",
		Days:   &days,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be extended")
}

func TestMarkLostAdminOnlyAndKeepsCopyOut(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	_, err = f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "mark_lost",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only admins")

	updated, err := f.service.UpdateCheckout(context.Background(), f.member.ID, true, id, &request.UpdateCheckoutRequest{
		Action: "mark_lost",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatusLost, updated.Status)
	assert.Equal(t, 1, f.books.copies(f.book.ID))
}

func TestCancelCheckoutRestoresCopy(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	updated, err := f.service.UpdateCheckout(context.Background(), f.member.ID, false, id, &request.UpdateCheckoutRequest{
		Action: "cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatusCancelled, updated.Status)
	assert.Equal(t, 2, f.books.copies(f.book.ID))
}

func TestGetAllCheckoutsScopesNonAdminsToSelf(t *testing.T) {
	f := setupCheckoutFixture(t)

	other := &entity.Member{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: f.now, UpdatedAt: f.now},
		Email:        "other@example.com",
		DisplayName:  "Other",
		Role:         entity.RoleUser,
	}
	require.NoError(t, f.members.Create(context.Background(), other))

	_, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.service.CreateCheckout(context.Background(), other.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	req := &request.ListCheckoutsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	}

	// Non-admins cannot widen the filter even by naming another member.
	otherID := other.ID.String()
	req.MemberID = &otherID

	mine, err := f.service.GetAllCheckouts(context.Background(), f.member.ID, false, req)
	require.NoError(t, err)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, f.member.ID.String(), mine.Data[0].MemberID)

	all, err := f.service.GetAllCheckouts(context.Background(), f.member.ID, true, &request.ListCheckoutsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
}

func TestGetCheckoutHiddenFromOtherMembers(t *testing.T) {
	f := setupCheckoutFixture(t)

	created, err := f.service.CreateCheckout(context.Background(), f.member.ID, false, &request.CreateCheckoutRequest{
		BookID: f.book.ID.String(),
	})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	_, err = f.service.GetCheckoutByID(context.Background(), uuid.New(), false, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	fetched, err := f.service.GetCheckoutByID(context.Background(), uuid.New(), true, id)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}
