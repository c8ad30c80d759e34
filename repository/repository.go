// Package repository holds the server-side collection store, one
// repository per entity kind. Controllers depend only on these interfaces
// so the in-memory demo store and the gorm-backed store are
// interchangeable. There is no concurrency control beyond keeping the
// store itself race-free: concurrent writers to the same id race and the
// last one wins.
package repository

import (
	"errors"

	"restora/entity"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("user already exists")
)

type MenuRepository interface {
	List() ([]entity.MenuItem, error)
	Create(item *entity.MenuItem) error
	Patch(id string, patch entity.MenuItemPatch) (*entity.MenuItem, error)
	Delete(id string) error
}

type ReviewRepository interface {
	List() ([]entity.Review, error)
	Create(review *entity.Review) error
	Delete(id string) error
}

type ReservationRepository interface {
	List() ([]entity.Reservation, error)
	Create(reservation *entity.Reservation) error
	SetStatus(id, status string) (*entity.Reservation, error)
	Delete(id string) error
	DeleteAll() error
}

type SaleRepository interface {
	List() ([]entity.Sale, error)
	Create(sale *entity.Sale) error
}

type UserRepository interface {
	List() ([]entity.User, error)
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
}

// Repositories bundles one repository per entity kind for route wiring.
type Repositories struct {
	Menu         MenuRepository
	Reviews      ReviewRepository
	Reservations ReservationRepository
	Sales        SaleRepository
	Users        UserRepository
}
