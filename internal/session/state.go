package session

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	return [...]string{"Anonymous", "Authenticated"}[s]
}

type Event int

const (
	Login Event = iota
	Logout
	Expire
)

func (e Event) String() string {
	return [...]string{"Login", "Logout", "Expire"}[e]
}

func newState(log *zap.Logger) *fsm.FSM {
	return fsm.NewFSM(
		Anonymous.String(), fsm.Events{
			{
				Name: Login.String(),
				Src:  []string{Anonymous.String()},
				Dst:  Authenticated.String(),
			}, {
				Name: Logout.String(),
				Src:  []string{Authenticated.String()},
				Dst:  Anonymous.String(),
			}, {
				Name: Expire.String(),
				Src:  []string{Authenticated.String()},
				Dst:  Anonymous.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, event *fsm.Event) {
				log.Info("session transition",
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}
