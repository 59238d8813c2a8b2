package http

import (
	"github.com/nats-io/nats.go"
	"github.com/swopnil/Guardify/internal/adapters/postgres"
	"github.com/swopnil/Guardify/internal/adapters/valkey"
	"github.com/swopnil/Guardify/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes         *usecases.RouteService
	People         *usecases.PeopleService
	Geofence       *usecases.GeofenceService
	Navigation     *usecases.NavigationService
	Alerts         *usecases.AlertService
	Chat           *usecases.ChatService
	Transcriptions *usecases.TranscriptionService
	NATS           *nats.Conn
	DB             *postgres.DB
	Cache          *valkey.Cache
}
