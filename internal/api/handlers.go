package api

import (
	"fmt"
	"net/http"

	"github.com/annel0/shades/internal/shades"
	"github.com/annel0/shades/internal/vec"
	"github.com/gin-gonic/gin"
)

// ResolveRequest — поле в текстовом формате (сверху вниз, '.' — пусто)
type ResolveRequest struct {
	Board     string `json:"board" binding:"required"`
	MaxTier   int    `json:"max_tier"`
	Strict    *bool  `json:"strict"`
	MaxRounds int    `json:"max_rounds"`
}

// ResolveResponse — результат стабилизации
type ResolveResponse struct {
	Board     string            `json:"board"`
	Merges    int               `json:"merges"`
	Clears    int               `json:"clears"`
	Rounds    int               `json:"rounds"`
	Violation *shades.Violation `json:"violation,omitempty"`
}

// CreateSessionRequest — параметры новой сессии
type CreateSessionRequest struct {
	Seed int64 `json:"seed"`
}

// DropRequest — бросок очередной плитки в колонку
type DropRequest struct {
	Column *int `json:"column" binding:"required"`
}

// LockRequest — фиксация плитки в клетке
type LockRequest struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Tier int `json:"tier" binding:"required"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: err.Error()})
}

// handleResolve стабилизирует присланное поле без новой плитки
func (rs *RestServer) handleResolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	maxTier := rs.maxTier
	if req.MaxTier != 0 {
		if req.MaxTier < 0 || req.MaxTier > int(shades.MaxTierLimit) {
			rs.writeError(c, fmt.Errorf("%w: max_tier %d", shades.ErrInvalidDims, req.MaxTier))
			return
		}
		maxTier = shades.Tier(req.MaxTier)
	}

	grid, err := shades.ParseGridMax(req.Board, maxTier)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	opts := rs.engine
	if req.Strict != nil {
		opts.StrictInvariants = *req.Strict
	}
	if req.MaxRounds > 0 {
		opts.MaxRounds = req.MaxRounds
	}

	res, err := shades.ResolveStable(grid, opts)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Поле стабилизировано",
		Data: ResolveResponse{
			Board:     res.Grid.String(),
			Merges:    res.Merges,
			Clears:    res.Clears,
			Rounds:    res.Rounds,
			Violation: shades.FirstInvariantViolation(res.Grid),
		},
	})
}

func (rs *RestServer) handleCreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	s, err := rs.sessions.Create(c.Request.Context(), req.Seed)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Сессия создана",
		Data:    s.Snapshot(),
	})
}

func (rs *RestServer) handleListSessions(c *gin.Context) {
	states := rs.sessions.List()
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: fmt.Sprintf("Сессий: %d", len(states)),
		Data:    states,
	})
}

func (rs *RestServer) handleGetSession(c *gin.Context) {
	s, err := rs.sessions.Get(c.Param("id"))
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Сессия", Data: s.Snapshot()})
}

func (rs *RestServer) handleDeleteSession(c *gin.Context) {
	if err := rs.sessions.Delete(c.Param("id")); err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Сессия удалена"})
}

func (rs *RestServer) handleDrop(c *gin.Context) {
	var req DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := rs.sessions.Get(c.Param("id"))
	if err != nil {
		rs.writeError(c, err)
		return
	}

	out, err := s.Drop(c.Request.Context(), *req.Column)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Ход принят", Data: out})
}

func (rs *RestServer) handleLock(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Tier < 1 || req.Tier > int(shades.MaxTierLimit) {
		rs.writeError(c, fmt.Errorf("%w: %d", shades.ErrInvalidTier, req.Tier))
		return
	}

	s, err := rs.sessions.Get(c.Param("id"))
	if err != nil {
		rs.writeError(c, err)
		return
	}

	p := shades.Placement{Pos: vec.Vec2{X: req.X, Y: req.Y}, Tier: shades.Tier(req.Tier)}
	out, err := s.Lock(c.Request.Context(), p)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Ход принят", Data: out})
}
