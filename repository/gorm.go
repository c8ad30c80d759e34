package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"restora/entity"
)

// NewGorm serves the same interfaces from a gorm database. With the
// default `file::memory:?cache=shared` DSN the store is still
// process-lifetime only; point DB_SOURCE at a file to keep data across
// restarts.
func NewGorm(db *gorm.DB) *Repositories {
	return &Repositories{
		Menu:         &gormMenu{db: db},
		Reviews:      &gormReviews{db: db},
		Reservations: &gormReservations{db: db},
		Sales:        &gormSales{db: db},
		Users:        &gormUsers{db: db},
	}
}

type gormMenu struct{ db *gorm.DB }

func (g *gormMenu) List() ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := g.db.Find(&items).Error
	return items, err
}

func (g *gormMenu) Create(item *entity.MenuItem) error {
	return g.db.Create(item).Error
}

func (g *gormMenu) Patch(id string, patch entity.MenuItemPatch) (*entity.MenuItem, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Image != nil {
		fields["image"] = *patch.Image
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if len(fields) > 0 {
		res := g.db.Model(&entity.MenuItem{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	var item entity.MenuItem
	if err := g.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (g *gormMenu) Delete(id string) error {
	res := g.db.Delete(&entity.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormReviews struct{ db *gorm.DB }

func (g *gormReviews) List() ([]entity.Review, error) {
	var reviews []entity.Review
	err := g.db.Find(&reviews).Error
	return reviews, err
}

func (g *gormReviews) Create(review *entity.Review) error {
	return g.db.Create(review).Error
}

func (g *gormReviews) Delete(id string) error {
	res := g.db.Delete(&entity.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormReservations struct{ db *gorm.DB }

func (g *gormReservations) List() ([]entity.Reservation, error) {
	var reservations []entity.Reservation
	err := g.db.Find(&reservations).Error
	return reservations, err
}

func (g *gormReservations) Create(reservation *entity.Reservation) error {
	return g.db.Create(reservation).Error
}

func (g *gormReservations) SetStatus(id, status string) (*entity.Reservation, error) {
	res := g.db.Model(&entity.Reservation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var reservation entity.Reservation
	if err := g.db.First(&reservation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (g *gormReservations) Delete(id string) error {
	res := g.db.Delete(&entity.Reservation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *gormReservations) DeleteAll() error {
	return g.db.Where("1 = 1").Delete(&entity.Reservation{}).Error
}

type gormSales struct{ db *gorm.DB }

func (g *gormSales) List() ([]entity.Sale, error) {
	var sales []entity.Sale
	err := g.db.Find(&sales).Error
	return sales, err
}

func (g *gormSales) Create(sale *entity.Sale) error {
	return g.db.Create(sale).Error
}

type gormUsers struct{ db *gorm.DB }

func (g *gormUsers) List() ([]entity.User, error) {
	var users []entity.User
	err := g.db.Find(&users).Error
	return users, err
}

func (g *gormUsers) Create(user *entity.User) error {
	if _, err := g.FindByEmail(user.Email); err == nil {
		return ErrDuplicateEmail
	}
	return g.db.Create(user).Error
}

func (g *gormUsers) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := g.db.First(&user, "lower(email) = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
