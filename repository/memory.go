package repository

import (
	"strings"
	"sync"

	"restora/entity"
)

// NewMemory returns the default store: plain in-process slices guarded by
// one mutex per kind. Nothing survives a restart.
func NewMemory() *Repositories {
	return &Repositories{
		Menu:         &memoryMenu{},
		Reviews:      &memoryReviews{},
		Reservations: &memoryReservations{},
		Sales:        &memorySales{},
		Users:        &memoryUsers{},
	}
}

type memoryMenu struct {
	mu    sync.Mutex
	items []entity.MenuItem
}

func (m *memoryMenu) List() ([]entity.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.MenuItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memoryMenu) Create(item *entity.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryMenu) Patch(id string, patch entity.MenuItemPatch) (*entity.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if patch.Name != nil {
			m.items[i].Name = *patch.Name
		}
		if patch.Price != nil {
			m.items[i].Price = *patch.Price
		}
		if patch.Image != nil {
			m.items[i].Image = *patch.Image
		}
		if patch.Category != nil {
			m.items[i].Category = *patch.Category
		}
		updated := m.items[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (m *memoryMenu) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews []entity.Review
}

func (m *memoryReviews) List() ([]entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Review, len(m.reviews))
	copy(out, m.reviews)
	return out, nil
}

func (m *memoryReviews) Create(review *entity.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *memoryReviews) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type memoryReservations struct {
	mu           sync.Mutex
	reservations []entity.Reservation
}

func (m *memoryReservations) List() ([]entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Reservation, len(m.reservations))
	copy(out, m.reservations)
	return out, nil
}

func (m *memoryReservations) Create(reservation *entity.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = append(m.reservations, *reservation)
	return nil
}

func (m *memoryReservations) SetStatus(id, status string) (*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			m.reservations[i].Status = status
			updated := m.reservations[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryReservations) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			m.reservations = append(m.reservations[:i], m.reservations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryReservations) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = nil
	return nil
}

type memorySales struct {
	mu    sync.Mutex
	sales []entity.Sale
}

func (m *memorySales) List() ([]entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Sale, len(m.sales))
	copy(out, m.sales)
	return out, nil
}

func (m *memorySales) Create(sale *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, *sale)
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users []entity.User
}

func (m *memoryUsers) List() ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memoryUsers) Create(user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryUsers) FindByEmail(email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, email) {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
