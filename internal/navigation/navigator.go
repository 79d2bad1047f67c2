// Package navigation переключает потоки экранов клиента: неавторизованный
// (вход, регистрация) и авторизованный (вкладки и экран платежа поверх них).
//
// Поток меняют только успешный вход и явный выход. При смене потока экраны
// старого потока размонтируются, и их загрузки отменяются.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
	"github.com/magabrotheeeer/milk-customer/internal/screens"
)

// Route имя экрана.
type Route string

// Экраны клиента.
const (
	RouteLogin      Route = "login"
	RouteSignup     Route = "signup"
	RouteHome       Route = "home"
	RouteMilk       Route = "milk"
	RoutePayments   Route = "payments"
	RouteBills      Route = "bills"
	RouteAddPayment Route = "add_payment"
)

// Tabs вкладки авторизованного потока в порядке показа.
var Tabs = []Route{RouteHome, RouteMilk, RoutePayments, RouteBills}

// Flow поток экранов.
type Flow int

// Потоки.
const (
	Booting Flow = iota
	Unauthenticated
	Authenticated
)

func (f Flow) String() string {
	switch f {
	case Booting:
		return "booting"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition переход невозможен из текущего состояния.
var ErrInvalidTransition = errors.New("navigation: transition not allowed")

// TokenSource отдаёт сохранённый токен.
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// Screens экраны, которыми управляет навигация.
type Screens struct {
	Login      screens.Screen
	Signup     screens.Screen
	Home       screens.Screen
	Milk       screens.Screen
	Payments   screens.Screen
	Bills      screens.Screen
	AddPayment screens.Screen
}

func (s Screens) byRoute() map[Route]screens.Screen {
	return map[Route]screens.Screen{
		RouteLogin:      s.Login,
		RouteSignup:     s.Signup,
		RouteHome:       s.Home,
		RouteMilk:       s.Milk,
		RoutePayments:   s.Payments,
		RouteBills:      s.Bills,
		RouteAddPayment: s.AddPayment,
	}
}

// Navigator состояние навигации. Реализует screens.Router.
type Navigator struct {
	tokens TokenSource
	log    *slog.Logger

	mu      sync.Mutex
	root    context.Context
	screens map[Route]screens.Screen
	flow    Flow
	tab     Route
	stack   []Route
	mounted []Route
}

var _ screens.Router = (*Navigator)(nil)

// New создаёт навигатор в состоянии Booting. Экраны подключаются через Attach.
func New(tokens TokenSource, log *slog.Logger) *Navigator {
	return &Navigator{
		tokens:  tokens,
		log:     log,
		root:    context.Background(),
		screens: map[Route]screens.Screen{},
	}
}

// Attach подключает экраны.
func (n *Navigator) Attach(s Screens) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screens = s.byRoute()
}

// Boot выбирает начальный поток по наличию токена. Токен не проверяется бэкендом.
// ctx задаёт время жизни всех экранов.
func (n *Navigator) Boot(ctx context.Context) error {
	const op = "navigation.Boot"
	n.mu.Lock()
	n.root = ctx
	n.mu.Unlock()

	_, ok, err := n.tokens.Token(ctx)
	if err != nil {
		n.log.Error("failed to read token", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		return n.enter(ctx, Authenticated)
	}
	return n.enter(ctx, Unauthenticated)
}

// LoggedIn переключает на вкладки после успешного входа.
func (n *Navigator) LoggedIn(ctx context.Context) {
	if err := n.enter(ctx, Authenticated); err != nil {
		n.log.Debug("home focus after login failed", sl.Err(err))
	}
}

// LoggedOut переключает на экран входа.
func (n *Navigator) LoggedOut(ctx context.Context) {
	_ = n.enter(ctx, Unauthenticated)
}

// Back закрывает верхний экран (регистрацию или платёж) и фокусирует экран под ним.
func (n *Navigator) Back(ctx context.Context) {
	if err := n.back(ctx); err != nil && !errors.Is(err, ErrInvalidTransition) {
		n.log.Debug("focus after back failed", sl.Err(err))
	}
}

// Navigate открывает регистрацию (из входа) или платёж (поверх вкладок).
func (n *Navigator) Navigate(ctx context.Context, to Route) error {
	n.mu.Lock()
	allowed := (to == RouteSignup && n.flow == Unauthenticated) ||
		(to == RouteAddPayment && n.flow == Authenticated)
	if !allowed || len(n.stack) != 1 {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	n.stack = append(n.stack, to)
	n.mounted = append(n.mounted, to)
	root := n.root
	scr := n.screens[to]
	n.mu.Unlock()

	n.log.Info("navigated", slog.String("route", string(to)))
	scr.Mount(root)
	return scr.Focus(ctx)
}

// SelectTab переключает вкладку и перезагружает её данные.
func (n *Navigator) SelectTab(ctx context.Context, tab Route) error {
	if !isTab(tab) {
		return ErrInvalidTransition
	}
	n.mu.Lock()
	if n.flow != Authenticated || len(n.stack) != 1 {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	n.tab = tab
	n.stack[0] = tab
	scr := n.screens[tab]
	n.mu.Unlock()

	n.log.Info("tab selected", slog.String("route", string(tab)))
	return scr.Focus(ctx)
}

// Current верхний экран.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return ""
	}
	return n.stack[len(n.stack)-1]
}

// Flow текущий поток.
func (n *Navigator) Flow() Flow {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.flow
}

func (n *Navigator) enter(ctx context.Context, flow Flow) error {
	n.mu.Lock()
	old := n.mounted
	var mount []Route
	top := RouteLogin
	if flow == Authenticated {
		mount = append(mount, Tabs...)
		top = RouteHome
	} else {
		mount = []Route{RouteLogin}
	}
	n.flow = flow
	n.tab = ""
	if flow == Authenticated {
		n.tab = top
	}
	n.stack = []Route{top}
	n.mounted = mount
	root := n.root
	byRoute := n.screens
	n.mu.Unlock()

	for i := len(old) - 1; i >= 0; i-- {
		byRoute[old[i]].Unmount()
	}
	for _, r := range mount {
		byRoute[r].Mount(root)
	}

	n.log.Info("flow switched", slog.String("flow", flow.String()), slog.String("route", string(top)))
	return byRoute[top].Focus(ctx)
}

func (n *Navigator) back(ctx context.Context) error {
	n.mu.Lock()
	if len(n.stack) < 2 {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	closing := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	top := n.stack[len(n.stack)-1]
	n.mounted = without(n.mounted, closing)
	byRoute := n.screens
	n.mu.Unlock()

	byRoute[closing].Unmount()
	n.log.Info("navigated back", slog.String("route", string(top)))
	return byRoute[top].Focus(ctx)
}

func isTab(r Route) bool {
	for _, t := range Tabs {
		if t == r {
			return true
		}
	}
	return false
}

func without(routes []Route, r Route) []Route {
	out := make([]Route, 0, len(routes))
	for _, x := range routes {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}
