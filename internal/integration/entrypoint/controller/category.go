package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/usecase/category"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	categories *category.UseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(categories *category.UseCase) *CategoryController {
	return &CategoryController{categories: categories}
}

// List handles GET /categories requests. Defaults come first by sort
// order, then the owner's own categories.
func (ctl *CategoryController) List(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	categories, err := ctl.categories.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToCategoryListResponse(categories)))
}

// Create handles POST /categories requests.
func (ctl *CategoryController) Create(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	created, err := ctl.categories.Create(c.Request.Context(), ownerID, category.CreateInput{
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToCategoryResponse(created)))
}
