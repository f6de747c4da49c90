package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/service"
)

type CategoryController struct {
	categories *service.CategoryService
	log        *zap.SugaredLogger
}

func NewCategoryController(categories *service.CategoryService, log *zap.SugaredLogger) *CategoryController {
	return &CategoryController{categories: categories, log: log}
}

type bulkDeleteCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

func (cc *CategoryController) List(c *gin.Context) {
	categories, err := cc.categories.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, cc.log, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CategoryController) ListWithCount(c *gin.Context) {
	categories, err := cc.categories.ListActiveWithCounts(c.Request.Context())
	if err != nil {
		respondError(c, cc.log, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CategoryController) Get(c *gin.Context) {
	category, err := cc.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, cc.log, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoryController) Create(c *gin.Context) {
	var input service.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	category, err := cc.categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, cc.log, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (cc *CategoryController) Update(c *gin.Context) {
	var patch service.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	category, err := cc.categories.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, cc.log, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoryController) Delete(c *gin.Context) {
	category, err := cc.categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, cc.log, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "category": category})
}

func (cc *CategoryController) Deactivate(c *gin.Context) {
	category, err := cc.categories.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, cc.log, err, "Failed to deactivate category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deactivated successfully", "category": category})
}

func (cc *CategoryController) BulkDelete(c *gin.Context) {
	var req bulkDeleteCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	n, err := cc.categories.BulkDelete(c.Request.Context(), req.CategoryIDs)
	if err != nil {
		respondError(c, cc.log, err, "Failed to delete categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d categories deleted successfully", n),
		"deletedCount": n,
	})
}
