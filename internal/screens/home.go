package screens

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// HomeStats статистика выбранного и предыдущего месяцев.
type HomeStats struct {
	Month    time.Time
	Current  api.DashboardData
	Previous api.DashboardData
}

// HomeView то, что показывает главный экран.
type HomeView struct {
	UserName string
	Month    time.Time
	Stats    fetch.Snapshot[HomeStats]
}

// Home главный экран: имя пользователя и сравнение двух месяцев.
type Home struct {
	deps Deps
	life lifetime

	mu       sync.Mutex
	month    time.Time
	userName string
	loader   *fetch.Loader[HomeStats]
}

// NewHome создаёт главный экран.
func NewHome(deps Deps) *Home {
	return &Home{deps: deps}
}

// Mount читает имя пользователя из хранилища и выбирает текущий месяц.
func (s *Home) Mount(ctx context.Context) {
	const op = "screens.Home.Mount"
	life := s.life.mount(ctx)

	name := ""
	profile, err := s.deps.Store.User(life)
	if err != nil {
		s.deps.Log.Warn("failed to read profile", sl.Op(op), sl.Err(err))
	} else {
		name = profile.Username()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.userName = name
	s.month = month.Clamp(month.Start(s.deps.now()))
	s.loader = fetch.New(life, s.fetch, logChanges[HomeStats](s.deps.Log, "home"))
}

// Unmount отменяет загрузки экрана.
func (s *Home) Unmount() {
	s.mu.Lock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.mu.Unlock()
	s.life.unmount()
}

// Focus перезагружает статистику выбранного месяца.
func (s *Home) Focus(ctx context.Context) error {
	return s.load(ctx)
}

// SelectMonth выбирает месяц (в пределах допустимого диапазона) и загружает его статистику.
func (s *Home) SelectMonth(ctx context.Context, m time.Time) error {
	s.mu.Lock()
	s.month = month.Clamp(month.Start(m))
	s.mu.Unlock()
	return s.load(ctx)
}

// View текущее состояние экрана.
func (s *Home) View() HomeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := HomeView{UserName: s.userName, Month: s.month}
	if s.loader != nil {
		v.Stats = s.loader.Snapshot()
	}
	return v
}

// Logout очищает хранилище и сообщает навигации о выходе.
func (s *Home) Logout(ctx context.Context) error {
	const op = "screens.Home.Logout"
	if err := s.deps.Store.Logout(ctx); err != nil {
		s.deps.Log.Error("failed to logout", sl.Op(op), sl.Err(err))
		s.deps.fail(err, "Error", "Something went wrong")
		return err
	}
	s.deps.Log.Info("logged out", sl.Op(op))
	s.deps.Router.LoggedOut(ctx)
	return nil
}

func (s *Home) load(ctx context.Context) error {
	s.mu.Lock()
	loader := s.loader
	s.mu.Unlock()
	if loader == nil {
		return ErrNotMounted
	}
	_, err := loader.Load(ctx)
	s.deps.fail(err, "Error", "Failed to load dashboard stats")
	return err
}

// fetch запрашивает выбранный и предыдущий месяцы параллельно и ждёт оба ответа.
func (s *Home) fetch(ctx context.Context) (HomeStats, error) {
	s.mu.Lock()
	selected := s.month
	s.mu.Unlock()

	stats := HomeStats{Month: selected}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.deps.API.DashboardStats(gctx, month.Param(selected))
		if err != nil {
			return err
		}
		if resp.Data != nil {
			stats.Current = *resp.Data
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.deps.API.DashboardStats(gctx, month.Param(month.Previous(selected)))
		if err != nil {
			return err
		}
		if resp.Data != nil {
			stats.Previous = *resp.Data
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return HomeStats{}, err
	}

	s.deps.Log.Debug("dashboard loaded", slog.String("month", month.Param(selected)))
	return stats, nil
}
