package hooks

import "github.com/rs/zerolog"

// Notification is a short message for the user.
type Notification struct {
	Title   string
	Message string
	// Destructive marks failures.
	Destructive bool
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger, failures at error level.
type LogNotifier struct {
	Log zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	ev := l.Log.Info()
	if n.Destructive {
		ev = l.Log.Error()
	}
	ev.Str("title", n.Title).Msg(n.Message)
}
