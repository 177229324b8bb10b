package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/usecase/account"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// AccountController handles account endpoints.
type AccountController struct {
	accounts *account.UseCase
}

// NewAccountController creates a new account controller instance.
func NewAccountController(accounts *account.UseCase) *AccountController {
	return &AccountController{accounts: accounts}
}

// List handles GET /accounts requests.
func (ctl *AccountController) List(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	accounts, err := ctl.accounts.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountListResponse(accounts)))
}

// Get handles GET /accounts/:id requests.
func (ctl *AccountController) Get(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	acc, err := ctl.accounts.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountResponse(acc)))
}

// Create handles POST /accounts requests.
func (ctl *AccountController) Create(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	acc, err := ctl.accounts.Create(c.Request.Context(), ownerID, account.CreateInput{
		Name:        req.Name,
		Type:        entity.AccountType(req.Type),
		Institution: req.Institution,
		LastFour:    req.LastFour,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToAccountResponse(acc)))
}

// Update handles PATCH /accounts/:id requests.
func (ctl *AccountController) Update(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	in := account.UpdateInput{
		Name:        req.Name,
		Institution: req.Institution,
		LastFour:    req.LastFour,
	}
	if req.Type != nil {
		accountType := entity.AccountType(*req.Type)
		in.Type = &accountType
	}

	acc, err := ctl.accounts.Update(c.Request.Context(), ownerID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountResponse(acc)))
}

// Delete handles DELETE /accounts/:id requests.
func (ctl *AccountController) Delete(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	if err := ctl.accounts.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
