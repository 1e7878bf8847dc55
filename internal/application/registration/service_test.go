package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/go-fest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCodeStore struct{ mock.Mock }

func (m *mockCodeStore) Store(ctx context.Context, email, purpose, code string) error {
	return m.Called(ctx, email, purpose, code).Error(0)
}
func (m *mockCodeStore) Verify(ctx context.Context, email, purpose, candidate string) (bool, error) {
	args := m.Called(ctx, email, purpose, candidate)
	return args.Bool(0), args.Error(1)
}
func (m *mockCodeStore) Delete(ctx context.Context, email, purpose string) error {
	return m.Called(ctx, email, purpose).Error(0)
}

type mockPendingStore struct{ mock.Mock }

func (m *mockPendingStore) Put(ctx context.Context, email string, p *domain.PendingRegistration) error {
	return m.Called(ctx, email, p).Error(0)
}
func (m *mockPendingStore) Get(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	args := m.Called(ctx, email)
	if p, _ := args.Get(0).(*domain.PendingRegistration); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPendingStore) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockAccountWriter struct{ mock.Mock }

func (m *mockAccountWriter) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountWriter) CreateWithEnrollment(ctx context.Context, p *domain.PendingRegistration) (*domain.User, error) {
	args := m.Called(ctx, p)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

func newService(cs *mockCodeStore, ps *mockPendingStore, w *mockAccountWriter, ml *mockMailer) Service {
	return NewService(ServiceDeps{Codes: cs, Pending: ps, Writer: w, Mailer: ml})
}

func baseReq() domain.RegistrationRequest {
	return domain.RegistrationRequest{
		Email:       "a@x.com",
		Password:    "longpass1",
		FirstName:   "A",
		LastName:    "B",
		RegisterNo:  "URK21CS1001",
		MobileNo:    "9876543210",
		DateOfBirth: "2000-01-01",
		Student: &domain.StudentDetails{
			CollegeName: "Karunya",
			Branch:      "CSE",
			Dept:        "Computer Science",
			YearOfStudy: 3,
		},
	}
}

// --- Submit ---

func TestSubmit_MissingEmail(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	req := baseReq()
	req.Email = ""

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_ShortPassword(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	req := baseReq()
	req.Password = "short"

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_StudentRequiredForParticipants(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	req := baseReq()
	req.Student = nil

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_StudentOptionalForFaculty(t *testing.T) {
	w := &mockAccountWriter{}
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	ml := &mockMailer{}
	w.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, "a@x.com", mock.MatchedBy(func(p *domain.PendingRegistration) bool {
		return p.IsFaculty && p.Student == nil
	})).Return(nil)
	cs.On("Store", mock.Anything, "a@x.com", "registration", mock.Anything).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(cs, ps, w, ml)
	req := baseReq()
	req.IsFaculty = true
	req.Student = nil

	email, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	ps.AssertExpectations(t)
}

func TestSubmit_InvalidDateOfBirth(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	req := baseReq()
	req.DateOfBirth = "01-01-2000"

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_FutureDateOfBirth(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	req := baseReq()
	req.DateOfBirth = "2099-01-01"

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_EmailConflict(t *testing.T) {
	w := &mockAccountWriter{}
	w.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{}, nil)

	svc := newService(nil, nil, w, nil)
	_, err := svc.Submit(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSubmit_HappyPath_WritesPayloadBeforeCode(t *testing.T) {
	w := &mockAccountWriter{}
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	ml := &mockMailer{}

	var order []string
	w.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, "a@x.com", mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "payload")
	}).Return(nil)
	cs.On("Store", mock.Anything, "a@x.com", "registration", mock.MatchedBy(func(code string) bool {
		return len(code) == 6
	})).Run(func(mock.Arguments) {
		order = append(order, "code")
	}).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(cs, ps, w, ml)
	email, err := svc.Submit(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, []string{"payload", "code"}, order)
	cs.AssertExpectations(t)
	ps.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestSubmit_PayloadStoreFailure_NoCodeNoMail(t *testing.T) {
	w := &mockAccountWriter{}
	ps := &mockPendingStore{}
	cs := &mockCodeStore{}
	ml := &mockMailer{}
	w.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, "a@x.com", mock.Anything).Return(domain.ErrDependency)

	svc := newService(cs, ps, w, ml)
	_, err := svc.Submit(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
	cs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_MailFailure_ReportedButStateKept(t *testing.T) {
	w := &mockAccountWriter{}
	ps := &mockPendingStore{}
	cs := &mockCodeStore{}
	ml := &mockMailer{}
	w.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, "a@x.com", mock.Anything).Return(nil)
	cs.On("Store", mock.Anything, "a@x.com", "registration", mock.Anything).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(cs, ps, w, ml)
	_, err := svc.Submit(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
	// Both ephemeral writes happened before the dispatch attempt.
	ps.AssertExpectations(t)
	cs.AssertExpectations(t)
}

// --- Confirm ---

func TestConfirm_InvalidCode(t *testing.T) {
	cs := &mockCodeStore{}
	w := &mockAccountWriter{}
	cs.On("Verify", mock.Anything, "a@x.com", "registration", "000000").Return(false, nil)

	svc := newService(cs, &mockPendingStore{}, w, nil)
	_, err := svc.Confirm(context.Background(), "a@x.com", "000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	w.AssertNotCalled(t, "CreateWithEnrollment", mock.Anything, mock.Anything)
}

func TestConfirm_PayloadExpired(t *testing.T) {
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	w := &mockAccountWriter{}
	cs.On("Verify", mock.Anything, "a@x.com", "registration", "123456").Return(true, nil)
	ps.On("Get", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(cs, ps, w, nil)
	_, err := svc.Confirm(context.Background(), "a@x.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "registration data expired")
	w.AssertNotCalled(t, "CreateWithEnrollment", mock.Anything, mock.Anything)
}

func TestConfirm_WriterFailure_KeepsEphemeralState(t *testing.T) {
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	w := &mockAccountWriter{}
	pending := &domain.PendingRegistration{Email: "a@x.com"}
	cs.On("Verify", mock.Anything, "a@x.com", "registration", "123456").Return(true, nil)
	ps.On("Get", mock.Anything, "a@x.com").Return(pending, nil)
	w.On("CreateWithEnrollment", mock.Anything, pending).Return(nil, errors.New("tx failed"))

	svc := newService(cs, ps, w, nil)
	_, err := svc.Confirm(context.Background(), "a@x.com", "123456")

	require.Error(t, err)
	// The code and payload must survive a failed commit so the same
	// confirmed code can be retried.
	cs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	ps.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestConfirm_ConflictPropagates(t *testing.T) {
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	w := &mockAccountWriter{}
	pending := &domain.PendingRegistration{Email: "a@x.com"}
	cs.On("Verify", mock.Anything, "a@x.com", "registration", "123456").Return(true, nil)
	ps.On("Get", mock.Anything, "a@x.com").Return(pending, nil)
	w.On("CreateWithEnrollment", mock.Anything, pending).Return(nil, domain.ErrConflict)

	svc := newService(cs, ps, w, nil)
	_, err := svc.Confirm(context.Background(), "a@x.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestConfirm_HappyPath_PurgesEphemeralState(t *testing.T) {
	cs := &mockCodeStore{}
	ps := &mockPendingStore{}
	w := &mockAccountWriter{}
	pending := &domain.PendingRegistration{Email: "a@x.com"}
	created := &domain.User{UserID: "u1", MKID: "MK25P00001", Email: "a@x.com"}

	cs.On("Verify", mock.Anything, "a@x.com", "registration", "123456").Return(true, nil)
	ps.On("Get", mock.Anything, "a@x.com").Return(pending, nil)
	w.On("CreateWithEnrollment", mock.Anything, pending).Return(created, nil)
	cs.On("Delete", mock.Anything, "a@x.com", "registration").Return(nil)
	ps.On("Delete", mock.Anything, "a@x.com").Return(nil)

	svc := newService(cs, ps, w, nil)
	u, err := svc.Confirm(context.Background(), "a@x.com", "123456")

	require.NoError(t, err)
	assert.Equal(t, "MK25P00001", u.MKID)
	cs.AssertExpectations(t)
	ps.AssertExpectations(t)
}
