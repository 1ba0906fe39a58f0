package handler

import (
	"emberchat/internal/app/room"
	"emberchat/internal/app/session"
	"emberchat/internal/configs"
)

// AppDeps bundles the explicitly constructed dependencies the handlers need.
// Everything is injected from main; no handler reaches for global state.
type AppDeps struct {
	Config   *configs.AppConfig
	Sessions *session.Registry
	Poller   *room.Poller
}
