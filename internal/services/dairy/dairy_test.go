package dairy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/milk-customer/internal/cache"
	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/jwt"
	"github.com/magabrotheeeer/milk-customer/internal/lib/password"
	"github.com/magabrotheeeer/milk-customer/internal/storage"
)

const testPhone = "03001234567"

var (
	testNow  = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	february = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, c Cache) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(storage.New(), jwt.NewMaker("test-secret", time.Hour), password.NewHasher(bcrypt.MinCost), c, time.Minute, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func registered(t *testing.T, c Cache) *Service {
	t.Helper()
	svc := newTestService(t, c)
	_, err := svc.Register(context.Background(), "Ali", testPhone, "secret1")
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ali", testPhone, "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ali", user.Username)
	assert.Equal(t, testPhone, user.PhoneNumber)
	assert.NotEmpty(t, user.UUID)

	_, err = svc.Register(ctx, "Other", testPhone, "secret2")
	assert.ErrorIs(t, err, ErrPhoneTaken)

	token, got, err := svc.Login(ctx, testPhone, "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, got)

	claims, err := jwt.NewMaker("test-secret", time.Hour).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, testPhone, claims.Phone)
	assert.Equal(t, "Ali", claims.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := registered(t, nil)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, testPhone, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "03009999999", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDashboardStats_SeededMonth(t *testing.T) {
	svc := registered(t, nil)

	stats, err := svc.DashboardStats(context.Background(), testPhone, february)
	require.NoError(t, err)
	assert.Equal(t, 252.0, stats.TotalMilkSold)
	assert.Equal(t, 55440.0, stats.GrandTotal)

	empty, err := svc.DashboardStats(context.Background(), testPhone, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalMilkSold)
}

func TestBills_PaidPartialUnpaid(t *testing.T) {
	svc := registered(t, nil)
	ctx := context.Background()

	bills, err := svc.Bills(ctx, testPhone)
	require.NoError(t, err)
	require.Len(t, bills, 4)

	latest := bills[0]
	assert.Equal(t, "2026-02-16", latest.FromDate)
	assert.Equal(t, "2026-02-28", latest.ToDate)
	assert.Equal(t, 25740.0, latest.TotalAmount)
	assert.Equal(t, StatusUnpaid, latest.Status)
	assert.Equal(t, latest.TotalAmount, latest.DueAmount)

	note := fmt.Sprintf("Bill #%d (%s - %s)", latest.ID, latest.FromDate, latest.ToDate)
	_, err = svc.AddPayment(ctx, testPhone, NewPayment{Amount: 740, Method: "cash", Status: StatusApproved, Date: testNow, Note: note})
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, testPhone, NewPayment{Amount: 5000, Method: "cash", Status: StatusPending, Date: testNow, Note: note})
	require.NoError(t, err)

	bills, err = svc.Bills(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, bills[0].Status)
	assert.Equal(t, 740.0, bills[0].PaidAmount)
	assert.Equal(t, 25000.0, bills[0].DueAmount)

	_, err = svc.AddPayment(ctx, testPhone, NewPayment{Amount: 25000, Method: "jazzcash", Status: StatusApproved, Date: testNow, Note: note})
	require.NoError(t, err)

	bills, err = svc.Bills(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, bills[0].Status)
	assert.Zero(t, bills[0].DueAmount)
	assert.Equal(t, StatusUnpaid, bills[1].Status)
}

func TestMilkCollection_RecordStatusFollowsBill(t *testing.T) {
	svc := registered(t, nil)
	ctx := context.Background()

	bills, err := svc.Bills(ctx, testPhone)
	require.NoError(t, err)
	latest := bills[0]
	_, err = svc.AddPayment(ctx, testPhone, NewPayment{
		Amount: latest.TotalAmount,
		Method: "cash",
		Status: StatusApproved,
		Date:   testNow,
		Note:   fmt.Sprintf("Bill #%d (%s - %s)", latest.ID, latest.FromDate, latest.ToDate),
	})
	require.NoError(t, err)

	feb, err := svc.MilkCollection(ctx, testPhone, february)
	require.NoError(t, err)
	assert.Equal(t, "February 2026", feb.Month)
	require.Len(t, feb.History, 28)
	assert.Equal(t, "2026-02-01", feb.History[0].Date)
	assert.Equal(t, "01/02/2026", feb.History[0].DisplayDate)
	assert.Equal(t, StatusUnpaid, feb.History[4].PaymentStatus)
	assert.Equal(t, StatusPaid, feb.History[19].PaymentStatus)
	assert.Equal(t, 252.0, feb.Summary.TotalMilkSold)

	mar, err := svc.MilkCollection(ctx, testPhone, testNow)
	require.NoError(t, err)
	require.Len(t, mar.History, 14)
	assert.Equal(t, StatusPending, mar.History[0].PaymentStatus)
}

func TestPaymentHistory_SummaryAndOrder(t *testing.T) {
	svc := registered(t, nil)
	ctx := context.Background()

	_, err := svc.AddPayment(ctx, testPhone, NewPayment{Amount: 1000, Method: "cash", Status: StatusApproved, Date: testNow.AddDate(0, 0, -2)})
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, testPhone, NewPayment{Amount: 500, Method: "easypaisa", Status: StatusPending, Date: testNow, Note: "  evening  "})
	require.NoError(t, err)

	history, err := svc.PaymentHistory(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, history.Summary.ApprovedAmount)
	assert.Equal(t, 500.0, history.Summary.PendingAmount)
	assert.Equal(t, 2, history.Summary.TotalPayments)
	require.Len(t, history.Payments, 2)
	assert.Equal(t, "easypaisa", history.Payments[0].PaymentMethod)
	require.NotNil(t, history.Payments[0].Note)
	assert.Equal(t, "evening", *history.Payments[0].Note)
	assert.Nil(t, history.Payments[1].Note)
}

func TestService_CachesAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.New(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	svc := registered(t, c)
	ctx := context.Background()

	_, err = svc.DashboardStats(ctx, testPhone, february)
	require.NoError(t, err)
	assert.True(t, mr.Exists("dashboard:"+testPhone+":2026-02"))

	first, err := svc.PaymentHistory(ctx, testPhone)
	require.NoError(t, err)
	assert.Empty(t, first.Payments)
	assert.True(t, mr.Exists("payments:"+testPhone))

	_, err = svc.AddPayment(ctx, testPhone, NewPayment{Amount: 300, Method: "cash", Status: StatusApproved, Date: testNow})
	require.NoError(t, err)
	assert.False(t, mr.Exists("payments:"+testPhone))

	second, err := svc.PaymentHistory(ctx, testPhone)
	require.NoError(t, err)
	assert.Len(t, second.Payments, 1)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.01, round(1.006))
	assert.Equal(t, 2.5, round(2.5))
	assert.Equal(t, -1.24, round(-1.236))
}

func TestAdvance_AppendsDaysAndClosesPeriods(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.New(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	svc := registered(t, c)
	ctx := context.Background()
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	before, err := svc.DashboardStats(ctx, testPhone, march)
	require.NoError(t, err)
	assert.Equal(t, 127.0, before.TotalMilkSold)

	records, bills, err := svc.Advance(ctx)
	require.NoError(t, err)
	assert.Zero(t, records)
	assert.Zero(t, bills)

	svc.now = func() time.Time { return testNow.AddDate(0, 0, 2) }
	records, bills, err = svc.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, records)
	assert.Equal(t, 1, bills)
	assert.False(t, mr.Exists("dashboard:"+testPhone+":2026-03"))

	after, err := svc.DashboardStats(ctx, testPhone, march)
	require.NoError(t, err)
	assert.Equal(t, 143.5, after.TotalMilkSold)

	entries, err := svc.Bills(ctx, testPhone)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "2026-03-01", entries[0].FromDate)
	assert.Equal(t, "2026-03-15", entries[0].ToDate)
	assert.Equal(t, 29700.0, entries[0].TotalAmount)
	assert.Equal(t, StatusUnpaid, entries[0].Status)

	records, bills, err = svc.Advance(ctx)
	require.NoError(t, err)
	assert.Zero(t, records)
	assert.Zero(t, bills)
}
