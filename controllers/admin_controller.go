package controllers

import (
	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

type AdminController struct {
	Repos *repository.Repositories
}

func NewAdminController(repos *repository.Repositories) *AdminController {
	return &AdminController{Repos: repos}
}

// GET /admin/dashboard (admin only)
func (ctl *AdminController) Dashboard(c *gin.Context) {
	menu, err := ctl.Repos.Menu.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	reviews, err := ctl.Repos.Reviews.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	reservations, err := ctl.Repos.Reservations.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	sales, err := ctl.Repos.Sales.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	users, err := ctl.Repos.Users.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	pending := 0
	for _, r := range reservations {
		if r.Status == entity.ReservationPending {
			pending++
		}
	}
	var revenue float64
	for _, s := range sales {
		revenue += s.Total
	}

	resp.OK(c, gin.H{
		"menuItems":           len(menu),
		"reviews":             len(reviews),
		"reservations":        len(reservations),
		"pendingReservations": pending,
		"sales":               len(sales),
		"revenue":             revenue,
		"users":               len(users),
	})
}
