// Package fetch содержит общий автомат загрузки данных экрана:
// Idle → Loading → (Success | Failure), плюс Refreshing для обновления списка,
// при котором прежние данные остаются видимыми.
//
// Каждая загрузка привязана к времени жизни экрана: после Close результат
// не применяется. Результат загрузки, которую обогнала более новая, тоже отбрасывается.
package fetch

import (
	"context"
	"errors"
	"sync"
)

// State состояние загрузки.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failure
	Refreshing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// ErrClosed возвращается загрузкой, начатой или завершённой после Close.
var ErrClosed = errors.New("fetch: loader closed")

// ErrSuperseded возвращается загрузкой, результат которой заменён более новой.
var ErrSuperseded = errors.New("fetch: superseded by a newer load")

// Func выполняет загрузку.
type Func[T any] func(ctx context.Context) (T, error)

// Snapshot текущее состояние загрузчика.
type Snapshot[T any] struct {
	State State
	Data  T
	// HasData true, если хотя бы одна загрузка завершилась успехом.
	HasData bool
	Err     error
}

// Busy true для Loading и Refreshing.
func (s Snapshot[T]) Busy() bool {
	return s.State == Loading || s.State == Refreshing
}

// Loader хранит состояние загрузки одного набора данных экрана.
type Loader[T any] struct {
	fn       Func[T]
	onChange func(Snapshot[T])

	lifetime context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	inFlight context.CancelFunc
	snap     Snapshot[T]
}

// New создаёт загрузчик, живущий не дольше parent. onChange может быть nil.
func New[T any](parent context.Context, fn Func[T], onChange func(Snapshot[T])) *Loader[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Loader[T]{
		fn:       fn,
		onChange: onChange,
		lifetime: ctx,
		cancel:   cancel,
	}
}

// Load запускает загрузку в состоянии Loading и ждёт результата.
func (l *Loader[T]) Load(ctx context.Context) (T, error) {
	return l.run(ctx, Loading)
}

// Refresh запускает загрузку в состоянии Refreshing: данные остаются видимыми.
func (l *Loader[T]) Refresh(ctx context.Context) (T, error) {
	return l.run(ctx, Refreshing)
}

// Snapshot возвращает копию текущего состояния.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Close завершает время жизни загрузчика и отменяет загрузку в полёте.
// После Close состояние больше не меняется.
func (l *Loader[T]) Close() {
	l.cancel()
}

// Closed сообщает, был ли вызван Close (или отменён родительский контекст).
func (l *Loader[T]) Closed() bool {
	return l.lifetime.Err() != nil
}

func (l *Loader[T]) run(ctx context.Context, state State) (T, error) {
	var zero T
	if l.Closed() {
		return zero, ErrClosed
	}

	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.lifetime, cancel)
	defer stop()
	defer cancel()

	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.inFlight != nil {
		l.inFlight()
	}
	l.inFlight = cancel
	l.snap.State = state
	l.snap.Err = nil
	snap := l.snap
	l.mu.Unlock()
	l.notify(snap)

	data, err := l.fn(runCtx)

	l.mu.Lock()
	if l.Closed() {
		l.mu.Unlock()
		return zero, ErrClosed
	}
	if gen != l.gen {
		l.mu.Unlock()
		return zero, ErrSuperseded
	}
	l.inFlight = nil
	if err != nil {
		// прежние данные остаются видимыми
		l.snap.State = Failure
		l.snap.Err = err
	} else {
		l.snap.State = Success
		l.snap.Data = data
		l.snap.HasData = true
	}
	snap = l.snap
	l.mu.Unlock()
	l.notify(snap)

	if err != nil {
		return zero, err
	}
	return data, nil
}

func (l *Loader[T]) notify(s Snapshot[T]) {
	if l.onChange != nil {
		l.onChange(s)
	}
}
