package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/config"
	"github.com/vodachat/voda-server/internal/core"
	"github.com/vodachat/voda-server/internal/directory"
)

// NewServer builds the HTTP side surface: health, read-only user lookup and
// the websocket endpoint speaking the same line protocol as raw TCP.
func NewServer(hub *core.Hub, dir *directory.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthHandler)
	router.GET("/api/users/:id", userLookupHandler(dir))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger, cfg.SendQueueSize)))

	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
