package main

import (
	"context"
	"log"

	"eventgenie/internal/config"
	"eventgenie/internal/database"
	"eventgenie/internal/domain"
	"eventgenie/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with an admin, sample customers, vendors and
// a catalog spanning all four categories. Destructive: wipes existing rows.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"notifications",
		"conversation_messages",
		"conversation_participants",
		"conversations",
		"service_blocked_dates",
		"bookings",
		"services",
		"admins",
		"vendors",
		"customers",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)
	services := repository.NewServiceRepository(db)

	log.Println("Creating accounts...")

	admin := &domain.Admin{
		Name:         "EventGenie Admin",
		Email:        "admin@eventgenie.in",
		PasswordHash: hash("admin123"),
	}
	if err := accounts.CreateAdmin(ctx, admin); err != nil {
		log.Fatal("seed admin:", err)
	}

	customers := []*domain.Customer{
		{Name: "Priya Sharma", Email: "priya@example.com", Phone: "+91 98100 11111", PasswordHash: hash("customer123")},
		{Name: "Rahul Verma", Email: "rahul@example.com", Phone: "+91 98100 22222", PasswordHash: hash("customer123")},
	}
	for _, c := range customers {
		if err := accounts.CreateCustomer(ctx, c); err != nil {
			log.Fatal("seed customer:", err)
		}
	}

	vendors := []*domain.Vendor{
		{Name: "Anita Rao", BusinessName: "Grand Palace Venues", Email: "anita@grandpalace.in", Phone: "+91 98200 33333", PasswordHash: hash("vendor123"), UPIID: "grandpalace@okhdfc"},
		{Name: "Suresh Iyer", BusinessName: "Spice Route Catering", Email: "suresh@spiceroute.in", Phone: "+91 98200 44444", PasswordHash: hash("vendor123"), UPIID: "spiceroute@okicici"},
	}
	for _, v := range vendors {
		if err := accounts.CreateVendor(ctx, v); err != nil {
			log.Fatal("seed vendor:", err)
		}
	}

	log.Println("Creating services...")
	catalog := []*domain.Service{
		{VendorID: vendors[0].ID, Name: "Grand Palace Banquet Hall", Category: domain.CategoryVenue, Description: "Banquet hall for up to 500 guests", Price: 250000},
		{VendorID: vendors[0].ID, Name: "Garden Lawn", Category: domain.CategoryVenue, Description: "Open-air lawn with stage", Price: 120000},
		{VendorID: vendors[0].ID, Name: "Stage and Floral Decor", Category: domain.CategoryDecor, Description: "Full venue decoration package", Price: 80000},
		{VendorID: vendors[1].ID, Name: "Wedding Buffet", Category: domain.CategoryCatering, Description: "Multi-cuisine buffet, per 100 plates", Price: 60000},
		{VendorID: vendors[1].ID, Name: "Live Counters", Category: domain.CategoryCatering, Description: "Chaat and grill live counters", Price: 35000},
		{VendorID: vendors[1].ID, Name: "DJ and Sound", Category: domain.CategoryEntertainment, Description: "DJ, sound and lighting for the evening", Price: 45000},
	}
	for _, svc := range catalog {
		if err := services.Create(ctx, svc); err != nil {
			log.Fatal("seed service:", err)
		}
	}

	log.Printf("Seed complete: 1 admin, %d customers, %d vendors, %d services", len(customers), len(vendors), len(catalog))
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}
