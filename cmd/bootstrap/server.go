package bootstrap

import (
	"net/http"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

// NewHTTPServer closes the hub as soon as Shutdown begins. Push streams never
// finish on their own, so Shutdown would otherwise wait for its deadline.
func NewHTTPServer(engine *gin.Engine, cfg config.Config, hub *broadcast.Hub) *http.Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)
	return srv
}
