package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/api"
)

var februaryBill = api.Bill{
	ID:          "7",
	FromDate:    "2026-02-01",
	ToDate:      "2026-02-15",
	TotalAmount: "3000",
	PaidAmount:  "2500",
	DueAmount:   "500",
	Status:      "partial",
}

func TestBillNote(t *testing.T) {
	assert.Equal(t, "Bill #7 (2026-02-01 - 2026-02-15)", BillNote(februaryBill))
}

func TestBills_PayOpenBill(t *testing.T) {
	f := newFixture(t)
	f.api.On("Bills", mock.Anything).Return(&api.BillsResponse{Envelope: success(), Data: []api.Bill{februaryBill}}, nil)
	f.api.On("AddPayment", mock.Anything, api.PaymentSubmission{
		Amount:        "500",
		PaymentMethod: "easypaisa",
		PaymentStatus: "approved",
		PaymentDate:   "2026-03-15",
		Note:          "Bill #7 (2026-02-01 - 2026-02-15)",
	}).Return(&api.AddPaymentResponse{Envelope: success()}, nil).Once()

	s := NewBills(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.NoError(t, s.Focus(context.Background()))
	require.Len(t, s.View().Bills, 1)

	form, err := s.Open("7")
	require.NoError(t, err)
	assert.Equal(t, "Bill #7 (2026-02-01 - 2026-02-15)", form.Note)
	require.NotNil(t, s.View().Paying)

	form.Amount = "500"
	form.Method = "EasyPaisa"
	form.Note = "edited"
	require.NoError(t, s.Pay(context.Background(), form))

	assert.Nil(t, s.View().Paying)
	f.api.AssertNumberOfCalls(t, "Bills", 2)
	f.api.AssertExpectations(t)
}

func TestBills_PayValidationKeepsModalOpen(t *testing.T) {
	f := newFixture(t)
	f.api.On("Bills", mock.Anything).Return(&api.BillsResponse{Envelope: success(), Data: []api.Bill{februaryBill}}, nil)

	s := NewBills(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.NoError(t, s.Focus(context.Background()))
	form, err := s.Open("7")
	require.NoError(t, err)

	err = s.Pay(context.Background(), form)
	_, ok := AsFieldErrors(err)
	assert.True(t, ok)
	assert.NotNil(t, s.View().Paying)
	f.api.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)

	s.Dismiss()
	assert.Nil(t, s.View().Paying)
}

func TestBills_OpenUnknownAndPayWithoutOpen(t *testing.T) {
	f := newFixture(t)
	f.api.On("Bills", mock.Anything).Return(&api.BillsResponse{Envelope: success()}, nil)

	s := NewBills(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.NoError(t, s.Focus(context.Background()))
	assert.Equal(t, EmptyBills, s.View().Empty)

	_, err := s.Open("99")
	assert.ErrorIs(t, err, ErrBillNotFound)
	assert.ErrorIs(t, s.Pay(context.Background(), PaymentForm{Amount: "1"}), ErrNoBillOpen)
}

func TestBills_PaySucceedsWhenRefreshFails(t *testing.T) {
	f := newFixture(t)
	f.api.On("Bills", mock.Anything).Return(&api.BillsResponse{Envelope: success(), Data: []api.Bill{februaryBill}}, nil).Once()
	f.api.On("Bills", mock.Anything).Return(nil, errors.New("network is down")).Once()
	f.api.On("AddPayment", mock.Anything, mock.Anything).Return(&api.AddPaymentResponse{Envelope: success()}, nil).Once()

	s := NewBills(f.deps)
	s.Mount(context.Background())
	defer s.Unmount()

	require.NoError(t, s.Focus(context.Background()))
	form, err := s.Open("7")
	require.NoError(t, err)
	form.Amount = "500"

	require.NoError(t, s.Pay(context.Background(), form))

	assert.Nil(t, s.View().Paying)
	assert.Len(t, s.View().Bills, 1)
	assert.Equal(t, []alert{{Title: "Error", Message: "network is down"}}, f.alerts.all())
	f.api.AssertExpectations(t)
}
