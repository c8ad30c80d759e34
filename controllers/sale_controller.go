package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

type SaleController struct {
	Repo repository.SaleRepository
}

func NewSaleController(repo repository.SaleRepository) *SaleController {
	return &SaleController{Repo: repo}
}

type CreateSaleRequest struct {
	Items []entity.SaleItem `json:"items" binding:"required"`
	Total *float64          `json:"total" binding:"required"`
}

// GET /sales
func (ctl *SaleController) List(c *gin.Context) {
	sales, err := ctl.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if sales == nil {
		sales = []entity.Sale{}
	}
	resp.OK(c, sales)
}

// POST /sales
func (ctl *SaleController) Create(c *gin.Context) {
	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "items (array) and total (number) are required")
		return
	}

	sale := entity.Sale{
		ID:        entity.NewID(),
		Timestamp: time.Now().UnixMilli(),
		Total:     *req.Total,
		Items:     req.Items,
	}

	if err := ctl.Repo.Create(&sale); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, sale)
}
