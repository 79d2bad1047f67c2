package screens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
	"github.com/magabrotheeeer/milk-customer/internal/httpclient"
)

func history(payments ...api.Payment) *api.PaymentHistoryResponse {
	return &api.PaymentHistoryResponse{
		Envelope: success(),
		Data: &api.PaymentHistoryData{
			Summary:  api.PaymentSummary{ApprovedAmount: "4500", PendingAmount: "500", TotalPayments: api.NumberOf(float64(len(payments)))},
			Payments: payments,
		},
	}
}

func TestPaymentHistory_RefreshReplacesList(t *testing.T) {
	f := newFixture(t)
	f.api.On("PaymentHistory", mock.Anything).
		Return(history(api.Payment{ID: "1", Amount: "4000"}, api.Payment{ID: "2", Amount: "500"}), nil).Once()
	f.api.On("PaymentHistory", mock.Anything).
		Return(history(api.Payment{ID: "3", Amount: "100"}), nil).Once()
	f.api.On("PaymentHistory", mock.Anything).
		Return(history(), nil).Once()

	s := NewPaymentHistory(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.NoError(t, s.Focus(context.Background()))
	assert.Len(t, s.View().Payments, 2)

	require.NoError(t, s.Refresh(context.Background()))
	v := s.View()
	require.Len(t, v.Payments, 1)
	assert.Equal(t, api.ID("3"), v.Payments[0].ID)
	assert.Equal(t, api.Number("4500"), v.Summary.ApprovedAmount)

	require.NoError(t, s.Refresh(context.Background()))
	v = s.View()
	assert.Empty(t, v.Payments)
	assert.Equal(t, EmptyPayments, v.Empty)
	assert.Equal(t, fetch.Success, v.State)
}

func TestPaymentHistory_ServerErrorMessage(t *testing.T) {
	f := newFixture(t)
	f.api.On("PaymentHistory", mock.Anything).
		Return(nil, &httpclient.StatusError{StatusCode: 500, Body: []byte(`{"error":"db down"}`)}).Once()

	s := NewPaymentHistory(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.Error(t, s.Focus(context.Background()))
	assert.Equal(t, []alert{{Title: "Error", Message: "db down"}}, f.alerts.all())
	assert.Empty(t, s.View().Empty)
}

func TestAddPayment_DefaultForm(t *testing.T) {
	f := newFixture(t)
	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	form := s.Form()
	assert.Equal(t, "Cash", form.Method)
	assert.Equal(t, testNow, form.Date)
	assert.Empty(t, form.Amount)
}

func TestAddPayment_EmptyAmountSendsNothing(t *testing.T) {
	f := newFixture(t)
	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.Submit(context.Background(), PaymentForm{Amount: "   ", Method: "Cash"})
	errs, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please enter amount", errs[FieldAmount])
	assert.Equal(t, errs, s.Errors())

	f.api.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
	assert.Zero(t, f.router.back)
}

func TestAddPayment_SubmitsNormalizedFields(t *testing.T) {
	f := newFixture(t)
	f.api.On("AddPayment", mock.Anything, api.PaymentSubmission{
		Amount:        "4500",
		PaymentMethod: "bank transfer",
		PaymentStatus: "approved",
		PaymentDate:   "2026-03-02",
		Note:          "March advance",
	}).Return(&api.AddPaymentResponse{Envelope: success()}, nil).Once()

	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.Submit(context.Background(), PaymentForm{
		Amount: " 4500 ",
		Method: "Bank Transfer",
		Date:   time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Note:   "  March advance  ",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.router.back)
	assert.Empty(t, f.alerts.all())
	f.api.AssertExpectations(t)
}

func TestAddPayment_RejectedKeepsFormOpen(t *testing.T) {
	f := newFixture(t)
	f.api.On("AddPayment", mock.Anything, mock.MatchedBy(func(p api.PaymentSubmission) bool {
		return p.Note == "" && p.PaymentMethod == "jazzcash"
	})).Return(&api.AddPaymentResponse{Envelope: api.Envelope{Result: "error"}}, nil).Once()

	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.Submit(context.Background(), PaymentForm{Amount: "100", Method: "jazzcash", Note: "   "})
	require.Error(t, err)
	assert.Equal(t, []alert{{Title: "Failed", Message: "Unable to submit payment"}}, f.alerts.all())
	assert.Zero(t, f.router.back)
	assert.Equal(t, "100", s.Form().Amount)
}

func TestAddPayment_UnknownMethod(t *testing.T) {
	f := newFixture(t)
	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.Submit(context.Background(), PaymentForm{Amount: "100", Method: "cheque"})
	errs, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, FieldMethod)
	f.api.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

func TestAddPayment_TransportError(t *testing.T) {
	f := newFixture(t)
	f.api.On("AddPayment", mock.Anything, mock.Anything).Return(nil, errors.New("network error")).Once()

	s := NewAddPayment(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.Error(t, s.Submit(context.Background(), PaymentForm{Amount: "100", Method: "Cash"}))
	assert.Equal(t, []alert{{Title: "Error", Message: "network error"}}, f.alerts.all())
}

func TestAddPayment_NotMounted(t *testing.T) {
	f := newFixture(t)
	s := NewAddPayment(f.deps)
	assert.ErrorIs(t, s.Submit(context.Background(), PaymentForm{Amount: "1"}), ErrNotMounted)
}
