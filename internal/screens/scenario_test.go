package screens

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/httpclient"
	"github.com/magabrotheeeer/milk-customer/internal/lib/logger"
	"github.com/magabrotheeeer/milk-customer/internal/session"
)

type sessionAlerts struct {
	mu    sync.Mutex
	count int
	acks  []func()
}

func (n *sessionAlerts) SessionExpired(ack func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	n.acks = append(n.acks, ack)
}

// wire собирает экраны поверх настоящего HTTP-клиента и тестового сервера.
func wire(t *testing.T, handler http.Handler) (*fixture, *sessionAlerts) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := newFixture(t)
	notifier := &sessionAlerts{}
	expiry := session.NewExpiry(f.store, notifier, logger.Discard())
	hc, err := httpclient.New(httpclient.Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, f.store, expiry, nil, logger.Discard())
	require.NoError(t, err)
	f.deps.API = api.New(hc, logger.Discard())
	return f, notifier
}

func TestScenario_LoginThenHomeShowsName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customer-login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber != "03001234567" || req.Password != "secret1" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(`{"result":"success","token":"abc","user":{"username":"Ali"}}`))
	})
	mux.HandleFunc("/api/customer-dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"total_milk_sold":"10.5","grand_total":2100}}`))
	})
	f, notifier := wire(t, mux)

	login := NewLogin(f.deps)
	login.Mount(context.Background())
	require.NoError(t, login.Submit(context.Background(), "03001234567", "secret1"))

	token, ok, err := f.store.Token(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.Equal(t, 1, f.router.loggedIn)

	home := NewHome(f.deps)
	home.Mount(context.Background())
	defer home.Unmount()
	require.NoError(t, home.Focus(context.Background()))

	v := home.View()
	assert.Equal(t, "Ali", v.UserName)
	assert.Equal(t, api.Number("10.5"), v.Stats.Data.Current.TotalMilkSold)
	assert.Zero(t, notifier.count)
}

func TestScenario_ConcurrentUnauthorizedShowsOneSessionAlert(t *testing.T) {
	var (
		mu       sync.Mutex
		arrived  int
		released = make(chan struct{})
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrived++
		if arrived == 2 {
			close(released)
		}
		mu.Unlock()
		<-released
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	})
	f, notifier := wire(t, handler)
	require.NoError(t, f.store.StoreAuth(context.Background(), "stale", json.RawMessage(`{"username":"Ali"}`)))

	payments := NewPaymentHistory(f.deps)
	payments.Mount(context.Background())
	defer payments.Unmount()
	bills := NewBills(f.deps)
	bills.Mount(context.Background())
	defer bills.Unmount()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = payments.Focus(context.Background()) }()
	go func() { defer wg.Done(); _ = bills.Focus(context.Background()) }()
	wg.Wait()

	assert.Equal(t, 1, notifier.count)
	assert.Equal(t, []alert{
		{Title: "Error", Message: "Unauthenticated."},
		{Title: "Error", Message: "Unauthenticated."},
	}, f.alerts.all())

	_, ok, err := f.store.Token(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	user, err := f.store.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ali", user.Username(), "only the token is cleared")
}
