package main

import (
	"fmt"
	"io"
	"sync"
)

// terminalUI печатает сообщения экранов в stderr.
type terminalUI struct {
	mu      sync.Mutex
	w       io.Writer
	alerts  int
	expired bool
}

func (u *terminalUI) Alert(title, message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.alerts++
	fmt.Fprintf(u.w, "%s: %s\n", title, message)
}

func (u *terminalUI) alerted() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.alerts > 0
}

// SessionExpired процесс завершается после команды, поэтому уведомление не подтверждается.
func (u *terminalUI) SessionExpired(func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.expired = true
	fmt.Fprintln(u.w, "Session Expired: Please log in again.")
}

func (u *terminalUI) sessionExpired() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.expired
}
