package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

type ReservationController struct {
	Repo repository.ReservationRepository
}

func NewReservationController(repo repository.ReservationRepository) *ReservationController {
	return &ReservationController{Repo: repo}
}

type CreateReservationRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Guests    int     `json:"guests" binding:"required,gt=0"`
	Date      string  `json:"date" binding:"required"`
	Time      string  `json:"time" binding:"required"`
	Occasion  string  `json:"occasion"`
	Notes     string  `json:"notes"`
	UserEmail *string `json:"userEmail"`
}

type SetReservationStatusRequest struct {
	Status string `json:"status"`
}

// GET /reservations
func (ctl *ReservationController) List(c *gin.Context) {
	reservations, err := ctl.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if reservations == nil {
		reservations = []entity.Reservation{}
	}
	resp.OK(c, reservations)
}

// POST /reservations
func (ctl *ReservationController) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "name, phone, guests, date and time are required for a reservation")
		return
	}

	reservation := entity.Reservation{
		ID:        req.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		Guests:    req.Guests,
		Date:      req.Date,
		Time:      req.Time,
		Occasion:  req.Occasion,
		Notes:     req.Notes,
		UserEmail: req.UserEmail,
		CreatedAt: time.Now().UnixMilli(),
		Status:    entity.ReservationPending,
	}
	if reservation.ID == "" {
		reservation.ID = entity.NewID()
	}

	if err := ctl.Repo.Create(&reservation); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, reservation)
}

// PATCH /reservations?id=
func (ctl *ReservationController) SetStatus(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		resp.BadRequest(c, "id query parameter is required")
		return
	}

	var req SetReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !entity.ValidReservationStatus(req.Status) {
		resp.BadRequest(c, "status must be pending, approved or rejected")
		return
	}

	updated, err := ctl.Repo.SetStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.NotFound(c, "Reservation not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, updated)
}

// DELETE /reservations[?id=]  — without id, clears every reservation.
func (ctl *ReservationController) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		if err := ctl.Repo.DeleteAll(); err != nil {
			resp.ServerError(c, err)
			return
		}
		resp.NoContent(c)
		return
	}

	if err := ctl.Repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.NotFound(c, "Reservation not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.NoContent(c)
}
