package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

const placeholderImage = "https://images.unsplash.com/photo-1504674900247-0877df9cc836?auto=format&fit=crop&w=400&q=60"

type MenuController struct {
	Repo repository.MenuRepository
}

func NewMenuController(repo repository.MenuRepository) *MenuController {
	return &MenuController{Repo: repo}
}

type CreateMenuItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// GET /menu
func (ctl *MenuController) List(c *gin.Context) {
	items, err := ctl.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if items == nil {
		items = []entity.MenuItem{}
	}
	resp.OK(c, items)
}

// POST /menu
func (ctl *MenuController) Create(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "name and price are required")
		return
	}

	// Ids supplied by the client are kept so a locally created record and
	// its server copy converge on the same id.
	item := entity.MenuItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	}
	if item.ID == "" {
		item.ID = entity.NewID()
	}
	if item.Image == "" {
		item.Image = placeholderImage
	}
	if item.Category == "" {
		item.Category = "Specials"
	}

	if err := ctl.Repo.Create(&item); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, item)
}

// PUT /menu?id=
func (ctl *MenuController) Update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		resp.BadRequest(c, "id query parameter is required")
		return
	}

	var patch entity.MenuItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		resp.BadRequest(c, "Invalid JSON body")
		return
	}

	updated, err := ctl.Repo.Patch(id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.NotFound(c, "Menu item not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, updated)
}

// DELETE /menu?id=
func (ctl *MenuController) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		resp.BadRequest(c, "id query parameter is required")
		return
	}

	if err := ctl.Repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.NotFound(c, "Menu item not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.NoContent(c)
}
