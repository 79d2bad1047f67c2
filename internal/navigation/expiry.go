package navigation

import (
	"context"
	"log/slog"
)

// ExpiryWatcher источник событий истечения сессии.
type ExpiryWatcher interface {
	OnExpire(fn func(ctx context.Context))
}

// LogoutOnExpiry переключает на экран входа при каждом показанном уведомлении
// об истечении сессии. Без этого 401 только очищает токен.
func (n *Navigator) LogoutOnExpiry(w ExpiryWatcher) {
	w.OnExpire(func(ctx context.Context) {
		n.log.Info("session expired, switching to login", slog.String("flow", n.Flow().String()))
		// экраны старого потока отменят свои загрузки, включая ту, что получила 401
		go n.LoggedOut(context.WithoutCancel(ctx))
	})
}
