package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestStorage_Customers(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateCustomer(ctx, models.Customer{Phone: "03001234567", Username: "Ali"}))
	assert.ErrorIs(t, s.CreateCustomer(ctx, models.Customer{Phone: "03001234567"}), ErrCustomerExists)

	c, err := s.CustomerByPhone(ctx, "03001234567")
	require.NoError(t, err)
	assert.Equal(t, "Ali", c.Username)

	_, err = s.CustomerByPhone(ctx, "03009999999")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	require.NoError(t, s.CreateCustomer(ctx, models.Customer{Phone: "03000000001", Username: "Bilal"}))
	phones, err := s.Phones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"03000000001", "03001234567"}, phones)
}

func TestStorage_MilkRecordsByRange(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddMilkRecords(ctx, "p", []models.MilkRecord{
		{Date: day(3), Quantity: 3},
		{Date: day(1), Quantity: 1},
		{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Quantity: 9},
	}))

	got, err := s.MilkRecords(ctx, "p", day(1), time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].Quantity)
	assert.Equal(t, 3.0, got[1].Quantity)
	assert.NotZero(t, got[0].ID)
	assert.Equal(t, "p", got[0].Phone)

	other, err := s.MilkRecords(ctx, "q", day(1), day(31))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStorage_PaymentsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreatePayment(ctx, models.Payment{Phone: "p", Amount: 1, Date: day(2)})
	require.NoError(t, err)
	second, err := s.CreatePayment(ctx, models.Payment{Phone: "p", Amount: 2, Date: day(2)})
	require.NoError(t, err)
	_, err = s.CreatePayment(ctx, models.Payment{Phone: "p", Amount: 3, Date: day(1)})
	require.NoError(t, err)

	got, err := s.Payments(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, first, got[1].ID)
	assert.Equal(t, 3.0, got[2].Amount)
}

func TestStorage_BillsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddBills(ctx, "p", []models.Bill{
		{From: day(1), To: day(15), Total: 100},
		{From: day(16), To: day(31), Total: 200},
	}))

	got, err := s.Bills(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 200.0, got[0].Total)
}
