package database

import (
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts the default admin/user accounts and sample books. It is a
// no-op when users already exist, so it is safe to run on every start.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	userPassword, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Email: "admin@bookstore.com", Password: string(adminPassword), Name: "Admin User", Role: models.RoleAdmin},
		{Email: "user@bookstore.com", Password: string(userPassword), Name: "Regular User", Role: models.RoleUser},
	}

	books := []models.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", Price: 9.99, Stock: 50, Description: "A romantic novel of manners."},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: 12.99, Stock: 30, Description: "A novel about racial injustice."},
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Price: 10.99, Stock: 40, Description: "A story of the Jazz Age."},
		{Title: "1984", Author: "George Orwell", Price: 8.99, Stock: 60, Description: "A dystopian social science fiction novel."},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		if err := tx.Create(&books).Error; err != nil {
			return err
		}
		zap.L().Info("Seeded database", zap.Int("users", len(users)), zap.Int("books", len(books)))
		return nil
	})
}
