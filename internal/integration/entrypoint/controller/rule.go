package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/usecase/rule"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// RuleController handles rule and suggestion endpoints.
type RuleController struct {
	listUseCase    *rule.ListUseCase
	getUseCase     *rule.GetUseCase
	createUseCase  *rule.CreateUseCase
	updateUseCase  *rule.UpdateUseCase
	deleteUseCase  *rule.DeleteUseCase
	reorderUseCase *rule.ReorderUseCase
	acceptUseCase  *rule.AcceptSuggestionUseCase
	dismissUseCase *rule.DismissSuggestionUseCase
}

// NewRuleController creates a new rule controller instance.
func NewRuleController(
	listUseCase *rule.ListUseCase,
	getUseCase *rule.GetUseCase,
	createUseCase *rule.CreateUseCase,
	updateUseCase *rule.UpdateUseCase,
	deleteUseCase *rule.DeleteUseCase,
	reorderUseCase *rule.ReorderUseCase,
	acceptUseCase *rule.AcceptSuggestionUseCase,
	dismissUseCase *rule.DismissSuggestionUseCase,
) *RuleController {
	return &RuleController{
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		createUseCase:  createUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		reorderUseCase: reorderUseCase,
		acceptUseCase:  acceptUseCase,
		dismissUseCase: dismissUseCase,
	}
}

// List handles GET /rules requests, priority descending.
func (ctl *RuleController) List(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	rules, err := ctl.listUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToRuleListResponse(rules)))
}

// Get handles GET /rules/:id requests.
func (ctl *RuleController) Get(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	r, err := ctl.getUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToRuleResponse(r)))
}

// Create handles POST /rules requests.
func (ctl *RuleController) Create(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	created, err := ctl.createUseCase.Execute(c.Request.Context(), ownerID, rule.CreateInput{
		Name:       req.Name,
		Priority:   req.Priority,
		Conditions: req.Conditions,
		Action:     req.Action,
		Source:     entity.RuleSourceUser,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToRuleResponse(created)))
}

// Update handles PATCH /rules/:id requests.
func (ctl *RuleController) Update(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	updated, err := ctl.updateUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"), rule.UpdateInput{
		Name:       req.Name,
		Enabled:    req.Enabled,
		Priority:   req.Priority,
		Conditions: req.Conditions,
		Action:     req.Action,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToRuleResponse(updated)))
}

// Delete handles DELETE /rules/:id requests.
func (ctl *RuleController) Delete(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	if err := ctl.deleteUseCase.Execute(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder handles POST /rules/reorder requests. The submitted order
// becomes the new priority order, highest first.
func (ctl *RuleController) Reorder(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.ReorderRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	if err := ctl.reorderUseCase.Execute(c.Request.Context(), ownerID, req.RuleIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AcceptSuggestion handles POST /rules/suggestions/accept requests.
func (ctl *RuleController) AcceptSuggestion(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.AcceptSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	created, err := ctl.acceptUseCase.Execute(c.Request.Context(), ownerID, entity.SuggestedRule{
		Name:       req.Name,
		Priority:   req.Priority,
		Conditions: req.Conditions,
		Action:     req.Action,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToRuleResponse(created)))
}

// DismissSuggestion handles POST /rules/suggestions/dismiss requests.
// Dismissal is idempotent.
func (ctl *RuleController) DismissSuggestion(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.DismissSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	if err := ctl.dismissUseCase.Execute(c.Request.Context(), ownerID, req.MerchantNormalized, req.CategoryID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
