package main

import (
	"fmt"
	"log"
	"time"

	"sharehub/internal/config"
	"sharehub/internal/database"
	"sharehub/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// cleanup in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM places")
	db.Exec("DELETE FROM books")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@sharehub.local",
		PasswordHash: string(adminHash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@sharehub.local / admin123")

	users := []domain.User{}
	for i, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user12345"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("User %d", i+1),
			Role:         domain.RoleUser,
		}
		db.Create(&u)
		users = append(users, u)
	}

	log.Println("Creating places...")
	places := []domain.Place{
		{OwnerID: admin.ID, Name: "Desk A1", Location: "Open space, 1st floor", Description: "Standing desk by the window", IsAvailable: true},
		{OwnerID: admin.ID, Name: "Desk A2", Location: "Open space, 1st floor", IsAvailable: true},
		{OwnerID: admin.ID, Name: "Meeting Room B", Location: "2nd floor", Description: "Seats 8, whiteboard", IsAvailable: true},
		{OwnerID: admin.ID, Name: "Phone Booth C", Location: "2nd floor", IsAvailable: false},
	}
	for i := range places {
		db.Create(&places[i])
	}

	log.Println("Creating books...")
	books := []domain.Book{
		{OwnerID: users[0].ID, Title: "The Go Programming Language", Author: "Donovan, Kernighan", Genre: "programming", PublishYear: 2015, MeetingAddress: "Central library entrance", IsAvailable: true},
		{OwnerID: users[1].ID, Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Genre: "programming", PublishYear: 2017, MeetingAddress: "Coffee shop on Main st", IsAvailable: true},
		{OwnerID: users[2].ID, Title: "The Master and Margarita", Author: "Mikhail Bulgakov", Genre: "fiction", PublishYear: 1967, MeetingAddress: "Park, north gate", IsAvailable: true},
	}
	for i := range books {
		db.Create(&books[i])
	}

	log.Println("Creating reservations...")
	tomorrow := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	reservations := []domain.Reservation{
		{PlaceID: places[0].ID, UserID: users[0].ID, StartTime: tomorrow.Add(10 * time.Hour), EndTime: tomorrow.Add(12 * time.Hour), Status: domain.ReservationActive},
		{PlaceID: places[0].ID, UserID: users[1].ID, StartTime: tomorrow.Add(12 * time.Hour), EndTime: tomorrow.Add(14 * time.Hour), Status: domain.ReservationActive},
		{PlaceID: places[2].ID, UserID: users[2].ID, StartTime: tomorrow.Add(9 * time.Hour), EndTime: tomorrow.Add(10 * time.Hour), Status: domain.ReservationCancelled},
	}
	for i := range reservations {
		db.Create(&reservations[i])
	}

	log.Println("Seed complete")
}
