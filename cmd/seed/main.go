package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"studiobooking/internal/database"
	"studiobooking/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "booking.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM change_logs")
	db.Exec("DELETE FROM booking_services")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM holidays")
	db.Exec("DELETE FROM availabilities")
	db.Exec("DELETE FROM service_offerings")
	db.Exec("DELETE FROM studios")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM entities")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@studiobooking.it",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin / admin123")

	secHash, _ := bcrypt.GenerateFromPassword([]byte("secretary123"), bcrypt.DefaultCost)
	secretary := domain.User{
		Username:     "reception",
		Email:        "reception@studiobooking.it",
		PasswordHash: string(secHash),
		Role:         domain.RoleSecretary,
	}
	db.Create(&secretary)

	// Engineers with a weekly schedule
	engineers := []domain.User{}
	for i, name := range []string{"marco", "giulia", "luca"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("fonico123"), bcrypt.DefaultCost)
		eng := domain.User{
			Username:     name,
			Email:        fmt.Sprintf("%s@studiobooking.it", name),
			PasswordHash: string(hash),
			Role:         domain.RoleEngineer,
			Phone:        fmt.Sprintf("+39 333 123 45%02d", i+10),
		}
		db.Create(&eng)
		engineers = append(engineers, eng)
	}

	// Clients grouped under one billing entity
	label := domain.Entity{Name: "Indie Label SRL", Notes: "monthly invoice"}
	db.Create(&label)
	clients := []domain.User{}
	for i, name := range []string{"anna", "paolo", "sara"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		c := domain.User{
			Username:     name,
			Email:        fmt.Sprintf("%s@mail.it", name),
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			Phone:        fmt.Sprintf("+39 340 987 65%02d", i+40),
		}
		if i < 2 {
			c.EntityID = &label.ID
		}
		db.Create(&c)
		clients = append(clients, c)
	}

	// ================== STUDIOS & SERVICES ==================
	log.Println("Creating studios and services...")

	studios := []domain.Studio{
		{Name: "Studio A", Description: "Large live room, SSL console", PricePerHour: 60},
		{Name: "Studio B", Description: "Vocal booth and production suite", PricePerHour: 40},
		{Name: "Studio C", Description: "Rehearsal and writing room", PricePerHour: 25},
	}
	for i := range studios {
		db.Create(&studios[i])
	}

	services := []domain.ServiceOffering{
		{Name: "Recording", Price: 30},
		{Name: "Mixing", Price: 50},
		{Name: "Mastering", Price: 80},
		{Name: "Production", Price: 45},
	}
	for i := range services {
		db.Create(&services[i])
	}

	// ================== AVAILABILITY ==================
	log.Println("Creating weekly availability...")

	weekdays := []domain.Day{domain.DayMon, domain.DayTue, domain.DayWed, domain.DayThu, domain.DayFri}
	for _, day := range weekdays {
		db.Create(&domain.Availability{UserID: engineers[0].ID, Day: day, Start: "10:00", End: "18:00"})
		db.Create(&domain.Availability{UserID: engineers[1].ID, Day: day, Start: "14:00", End: "22:00"})
	}
	// night engineer, window crossing midnight
	for _, day := range []domain.Day{domain.DayFri, domain.DaySat} {
		db.Create(&domain.Availability{UserID: engineers[2].ID, Day: day, Start: "20:00", End: "02:00"})
	}

	log.Println("Seed completed.")
}
