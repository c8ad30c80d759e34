package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

type ReviewController struct {
	Repo repository.ReviewRepository
	Menu repository.MenuRepository
}

func NewReviewController(repo repository.ReviewRepository, menu repository.MenuRepository) *ReviewController {
	return &ReviewController{Repo: repo, Menu: menu}
}

type CreateReviewRequest struct {
	ID           string `json:"id"`
	ItemID       string `json:"itemId" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewerName string `json:"reviewerName" binding:"required"`
	Text         string `json:"text" binding:"required"`
}

// GET /reviews
func (ctl *ReviewController) List(c *gin.Context) {
	reviews, err := ctl.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	resp.OK(c, reviews)
}

// POST /reviews
func (ctl *ReviewController) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "itemId, rating, reviewerName and text are required")
		return
	}

	// Dangling itemId is tolerated; the review just shows "Unknown".
	itemName := "Unknown"
	if items, err := ctl.Menu.List(); err == nil {
		for _, item := range items {
			if item.ID == req.ItemID {
				itemName = item.Name
				break
			}
		}
	}

	review := entity.Review{
		ID:           req.ID,
		ItemID:       req.ItemID,
		ItemName:     itemName,
		Rating:       req.Rating,
		ReviewerName: req.ReviewerName,
		Text:         req.Text,
		Timestamp:    time.Now().UnixMilli(),
	}
	if review.ID == "" {
		review.ID = entity.NewID()
	}

	if err := ctl.Repo.Create(&review); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, review)
}

// DELETE /reviews?id=
func (ctl *ReviewController) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		resp.BadRequest(c, "id query parameter is required")
		return
	}

	if err := ctl.Repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.NotFound(c, "Review not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.NoContent(c)
}
