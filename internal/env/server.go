package environment

import (
	"context"
	"log/slog"
	"net/http"

	"subtracker/internal/api"
	"subtracker/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		API           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, services *Services) *Servers {
	var servers Servers

	handler := api.NewHandler(services.Renewal, logger.WithGroup("api"))

	servers.HTTP.API = &http.Server{
		Handler:           handler.Routes(),
		Addr:              cfg.API.ADDR(),
		ReadTimeout:       cfg.API.ReadTimeout,
		WriteTimeout:      cfg.API.WriteTimeout,
		IdleTimeout:       cfg.API.IdleTimeout,
		ReadHeaderTimeout: cfg.API.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), services, cfg)

	return &servers
}
