package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"

	"github.com/tgrail/draftroom/go/internal/draft"
	"github.com/tgrail/draftroom/go/internal/outbox"
	"github.com/tgrail/draftroom/go/internal/trade"
)

type Services struct {
	Draft *draft.Service
	Trade *trade.Service

	DraftApp  *draft.App
	TradeApp  *trade.App
	OutboxApp *outbox.App
}

func setupServices(database *sql.DB) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer

	// Outbox first; both domains write events through it
	outboxRepo := outbox.NewRepository(database)
	outboxApp := outbox.NewApp(outboxRepo)

	// Draft
	draftRepo := draft.NewRepository(database)
	draftApp := draft.NewApp(draftRepo, outboxApp)
	draftService := draft.NewService(draftApp)

	// Trade ledger
	tradeRepo := trade.NewRepository(database)
	tradeApp := trade.NewApp(tradeRepo, draftApp, outboxApp, clockwork.NewRealClock())
	tradeService := trade.NewService(tradeApp)

	return &Services{
		Draft:     draftService,
		Trade:     tradeService,
		DraftApp:  draftApp,
		TradeApp:  tradeApp,
		OutboxApp: outboxApp,
	}
}
