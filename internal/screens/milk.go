package screens

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/fetch"
	"github.com/magabrotheeeer/milk-customer/internal/lib/month"
)

// EmptyMilk текст для месяца без записей.
const EmptyMilk = "No record found"

// MilkView то, что показывает экран сдачи молока.
type MilkView struct {
	Month   time.Time
	Title   string
	Summary api.MilkSummary
	Records []api.MilkRecord
	State   fetch.State
	// Empty текст пустого списка; пусто, если записи есть или загрузки ещё не было.
	Empty string
}

// Milk экран помесячной сдачи молока.
type Milk struct {
	deps Deps
	life lifetime

	mu     sync.Mutex
	month  time.Time
	loader *fetch.Loader[*api.MilkCollectionData]
}

// NewMilk создаёт экран сдачи молока.
func NewMilk(deps Deps) *Milk {
	return &Milk{deps: deps}
}

// Mount выбирает текущий месяц.
func (s *Milk) Mount(ctx context.Context) {
	life := s.life.mount(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.month = month.Clamp(month.Start(s.deps.now()))
	s.loader = fetch.New(life, s.fetch, logChanges[*api.MilkCollectionData](s.deps.Log, "milk"))
}

// Unmount отменяет загрузки экрана.
func (s *Milk) Unmount() {
	s.mu.Lock()
	if s.loader != nil {
		s.loader.Close()
	}
	s.mu.Unlock()
	s.life.unmount()
}

// Focus перезагружает выбранный месяц.
func (s *Milk) Focus(ctx context.Context) error {
	return s.load(ctx)
}

// SelectMonth выбирает месяц и загружает его записи.
func (s *Milk) SelectMonth(ctx context.Context, m time.Time) error {
	s.mu.Lock()
	s.month = month.Clamp(month.Start(m))
	s.mu.Unlock()
	return s.load(ctx)
}

// View текущее состояние экрана.
func (s *Milk) View() MilkView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := MilkView{Month: s.month, Title: month.Title(s.month)}
	if s.loader == nil {
		return v
	}
	snap := s.loader.Snapshot()
	v.State = snap.State
	if snap.HasData && snap.Data != nil {
		if snap.Data.Month != "" {
			v.Title = snap.Data.Month
		}
		v.Summary = snap.Data.Summary
		v.Records = snap.Data.History
	}
	if snap.HasData && len(v.Records) == 0 {
		v.Empty = EmptyMilk
	}
	return v
}

func (s *Milk) load(ctx context.Context) error {
	s.mu.Lock()
	loader := s.loader
	s.mu.Unlock()
	if loader == nil {
		return ErrNotMounted
	}
	_, err := loader.Load(ctx)
	s.deps.fail(err, "Error", "Something went wrong")
	return err
}

func (s *Milk) fetch(ctx context.Context) (*api.MilkCollectionData, error) {
	s.mu.Lock()
	selected := s.month
	s.mu.Unlock()

	resp, err := s.deps.API.MilkCollection(ctx, month.Param(selected))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejected(resp.Message, "Failed to fetch milk collection")
	}
	if resp.Data == nil {
		return &api.MilkCollectionData{}, nil
	}
	return resp.Data, nil
}
