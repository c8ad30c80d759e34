package configs

import (
	"restora/entity"
	"restora/repository"
)

const imageBase = "https://raw.githubusercontent.com/JOKERKlNG/Restora/refs/heads/main"

// SeedMenu fills an empty menu with the house dishes.
func SeedMenu(repo repository.MenuRepository) error {
	existing, err := repo.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []entity.MenuItem{
		{Name: "Coq au Vin", Price: 850, Image: imageBase + "/French%20Food%201.png", Category: "Main Course"},
		{Name: "Bouillabaisse", Price: 1200, Image: imageBase + "/French%20Food%202.png", Category: "Main Course"},
		{Name: "Ratatouille", Price: 650, Image: imageBase + "/French%20Food%203.png", Category: "Vegetarian"},
		{Name: "Escargot", Price: 750, Image: imageBase + "/French%20Food%204.png", Category: "Appetizer"},
		{Name: "Crêpes", Price: 450, Image: imageBase + "/French%20Food%205.png", Category: "Dessert"},
		{Name: "French Onion Soup", Price: 420, Image: imageBase + "/French%20Food%206.png", Category: "Soup"},
		{Name: "Beef Bourguignon", Price: 1100, Image: imageBase + "/French%20Food%207.png", Category: "Main Course"},
	}
	for i := range defaults {
		defaults[i].ID = entity.NewID()
		if err := repo.Create(&defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates the demo accounts when no users exist yet.
func SeedUsers(repo repository.UserRepository) error {
	existing, err := repo.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []entity.User{
		{ID: entity.NewID(), Email: "123@gmail.com", Password: "asdfghjkl", Name: "123", Role: entity.RoleUser},
		{ID: entity.NewID(), Email: "admin@gmail.com", Password: "12345678", Name: "Admin", Role: entity.RoleAdmin},
	}
	for i := range demo {
		if err := repo.Create(&demo[i]); err != nil {
			return err
		}
	}
	return nil
}
