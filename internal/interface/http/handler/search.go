package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsearch "github.com/boipara/bookstore/internal/application/search"
	"github.com/boipara/bookstore/internal/domain/search"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/response"
)

type SearchHandler struct {
	engine *appsearch.Engine
	logger *zap.Logger
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(engine *appsearch.Engine, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{engine: engine, logger: logger}
}

// Suggestions answers an empty list when the engine fails, so a slow or broken
// search never breaks the search box.
// @Summary      Autocomplete
// @Tags         search
// @Produce      json
// @Param        q      query string false "partial query, at least 2 characters"
// @Param        userId query int    false "caller, for logging"
// @Success      200 {object} response.Response{data=[]search.Suggestion}
// @Router       /api/v1/search/suggestions [get]
func (h *SearchHandler) Suggestions(c *gin.Context) {
	var q dto.SuggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Success(c, []search.Suggestion{})
		return
	}
	userID := middleware.GetUserID(c)
	if userID == 0 {
		userID = q.UserID
	}

	results, err := h.engine.Suggest(c.Request.Context(), q.Q, userID)
	if err != nil {
		h.logger.Warn("suggest failed, answering empty",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("query", q.Q),
			zap.Error(err),
		)
		results = []search.Suggestion{}
	}
	response.Success(c, results)
}

// Popular
// @Summary      Popular searches
// @Tags         search
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/v1/search/popular [get]
func (h *SearchHandler) Popular(c *gin.Context) {
	response.Success(c, h.engine.Popular(c.Request.Context()))
}

// History
// @Summary      Recent searches of a user
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "user id"
// @Success      200 {object} response.Response{data=[]string}
// @Failure      403 {object} response.Response "another user's history"
// @Router       /api/v1/search/history/{userId} [get]
func (h *SearchHandler) History(c *gin.Context) {
	userID, ok := h.historyOwner(c)
	if !ok {
		return
	}
	recent, err := h.engine.RecentHistory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recent)
}

// RecordHistory
// @Summary      Record a search
// @Tags         search
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RecordHistoryRequest true "search"
// @Success      200 {object} response.Response
// @Router       /api/v1/search/history [post]
func (h *SearchHandler) RecordHistory(c *gin.Context) {
	var req dto.RecordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := authorizeHistory(c, req.UserID); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.engine.RecordHistory(c.Request.Context(), req.UserID, req.Query); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearHistory
// @Summary      Forget a user's searches
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "user id"
// @Success      200 {object} response.Response
// @Router       /api/v1/search/history/{userId} [delete]
func (h *SearchHandler) ClearHistory(c *gin.Context) {
	userID, ok := h.historyOwner(c)
	if !ok {
		return
	}
	if err := h.engine.ClearHistory(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *SearchHandler) historyOwner(c *gin.Context) (uint, bool) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return 0, false
	}
	if err := authorizeHistory(c, userID); err != nil {
		response.Error(c, err)
		return 0, false
	}
	return userID, true
}

// authorizeHistory lets users reach only their own history; admins reach anyone's.
func authorizeHistory(c *gin.Context, owner uint) error {
	caller := middleware.GetUserID(c)
	switch {
	case caller == 0:
		return apperrors.ErrUnauthorized
	case caller == owner, middleware.GetRole(c) == user.RoleAdmin:
		return nil
	default:
		return apperrors.ErrForbidden
	}
}
