package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bistro/internal/errors"
	"bistro/internal/events"
	"bistro/internal/repository"
	"bistro/internal/testutil"
)

func newBookingService(t *testing.T) (BookingService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewBookingService(repository.NewBookingRepository(testutil.SQLite(t)), pub), pub
}

func newContactService(t *testing.T) (ContactService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewContactService(repository.NewContactRepository(testutil.SQLite(t)), pub), pub
}

func TestBookingService_Create(t *testing.T) {
	svc, pub := newBookingService(t)
	owner := uuid.New()

	booking, err := svc.Create(context.Background(), BookingInput{
		Name:     "  Ann Lee ",
		Email:    "Ann@Example.com",
		Datetime: "2025-05-01T19:30",
		People:   "4",
	}, owner)
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", booking.Name)
	assert.Equal(t, "ann@example.com", booking.Email)
	assert.Equal(t, time.Date(2025, 5, 1, 19, 30, 0, 0, time.UTC), booking.Datetime)
	assert.Equal(t, owner, booking.UserID)
	assert.Empty(t, booking.Message)
	assert.Equal(t, []string{events.BookingCreated}, pub.types())
}

func TestBookingService_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     BookingInput
		wantField string
	}{
		{
			name:      "missing name",
			input:     BookingInput{Email: "a@b.co", Datetime: "2025-05-01T19:30:00Z", People: "2"},
			wantField: "name",
		},
		{
			name:      "invalid email",
			input:     BookingInput{Name: "A", Email: "nope", Datetime: "2025-05-01T19:30:00Z", People: "2"},
			wantField: "email",
		},
		{
			name:      "unparseable datetime",
			input:     BookingInput{Name: "A", Email: "a@b.co", Datetime: "tomorrow", People: "2"},
			wantField: "datetime",
		},
		{
			name:      "missing people",
			input:     BookingInput{Name: "A", Email: "a@b.co", Datetime: "2025-05-01T19:30:00Z", People: "   "},
			wantField: "people",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newBookingService(t)
			_, err := svc.Create(context.Background(), tt.input, uuid.New())

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.Empty(t, pub.types())
		})
	}
}

func TestBookingService_ListingAndSearch(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	late, err := svc.Create(ctx, BookingInput{Name: "Alice Smith", Email: "alice@example.com", Datetime: "2025-06-02T20:00:00Z", People: "2"}, alice)
	require.NoError(t, err)
	early, err := svc.Create(ctx, BookingInput{Name: "Bob", Email: "bob@smith.org", Datetime: "2025-06-01T18:00:00Z", People: "3"}, bob)
	require.NoError(t, err)
	_, err = svc.Create(ctx, BookingInput{Name: "Carol", Email: "carol@example.com", Datetime: "2025-06-03T12:00:00Z", People: "1"}, bob)
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)

	mine, err := svc.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, late.ID, mine[0].ID)

	found, err := svc.Search(ctx, "SMITH")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, early.ID, found[0].ID)
	assert.Equal(t, late.ID, found[1].ID)

	none, err := svc.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingService_SearchRequiresQuery(t *testing.T) {
	svc, _ := newBookingService(t)
	for _, q := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), q)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "query", verr.Fields[0].Field)
	}
}

func TestBookingService_Delete(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()
	booking, err := svc.Create(ctx, BookingInput{Name: "A", Email: "a@b.co", Datetime: "2025-06-01", People: "2"}, uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, booking.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, booking.ID.String()), apperrors.ErrBookingNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "12345"), apperrors.ErrBookingNotFound)
}

func TestContactService_CreateListSearchDelete(t *testing.T) {
	svc, pub := newContactService(t)
	ctx := context.Background()

	contact, err := svc.Create(ctx, ContactInput{Name: "Dana", Email: "DANA@mail.com", Subject: "Allergies", Message: "Do you have gluten-free options?"})
	require.NoError(t, err)
	assert.Equal(t, "dana@mail.com", contact.Email)
	assert.Equal(t, []string{events.ContactCreated}, pub.types())

	_, err = svc.Create(ctx, ContactInput{Name: "Eve", Email: "eve@mail.com", Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Search(ctx, "dAn")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, contact.ID, found[0].ID)

	require.NoError(t, svc.Delete(ctx, contact.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, contact.ID.String()), apperrors.ErrContactNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "bogus"), apperrors.ErrContactNotFound)
}

func TestContactService_CreateValidation(t *testing.T) {
	svc, _ := newContactService(t)

	_, err := svc.Create(context.Background(), ContactInput{Name: "Dana", Email: "not-an-email", Subject: "S", Message: "M"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)

	_, err = svc.Create(context.Background(), ContactInput{Name: "Dana", Email: "d@mail.com"})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = svc.Search(context.Background(), "")
	assert.ErrorAs(t, err, &verr)
}
