package api

import (
	"context"
	"errors"
	"net/http"

	"GuandanClient/internal/game/engine"
	"GuandanClient/internal/game/manager"
	"GuandanClient/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	mgr *manager.GameManager
}

func NewHandler(mgr *manager.GameManager) *Handler {
	return &Handler{mgr: mgr}
}

// NewRouter 本地界面用的 HTTP 入口：状态查询、操作、/ws 推送
func NewRouter(h *Handler, hub *websocket.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", h.Health)
	r.GET("/state", h.State)
	r.POST("/actions/:action", h.Action)
	if hub != nil {
		r.GET("/ws", websocket.ServeWS(hub))
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /state  当前快照
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.mgr.Engine().Snapshot())
}

// POST /actions/:action  body: 操作参数（可为空）
func (h *Handler) Action(c *gin.Context) {
	args := map[string]any{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	action := c.Param("action")
	if err := h.mgr.Dispatch(c.Request.Context(), action, args); err != nil {
		c.JSON(statusOf(err), gin.H{"action": action, "error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "version": h.mgr.Engine().Snapshot().Version})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, manager.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, engine.ErrNotInRoom),
		errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrTributeNotAllowed),
		errors.Is(err, engine.ErrNotHost),
		errors.Is(err, engine.ErrSeatTaken),
		errors.Is(err, engine.ErrNoIdentity):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
