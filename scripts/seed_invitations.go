// Seed a demo admin account and a batch of invitations.
//
// Intended for a fresh development database, after running the server once
// with -migrate-only.
//
// Usage: go run scripts/seed_invitations.go

package main

import (
	"log"
	"os"
	"time"

	"pod360_backend/internal/config"
	"pod360_backend/internal/model"
	"pod360_backend/internal/util"
	"pod360_backend/pkg/database"
	"pod360_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := model.User{
		FirstName:  "Demo",
		LastName:   "Admin",
		Email:      "admin@pod360.local",
		Password:   string(hashed),
		Role:       model.Admin,
		Department: "People Ops",
	}
	if err := db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	seeds := []struct {
		email       string
		first, last string
		department  string
		stakeholder model.StakeholderRole
	}{
		{"alex.rivera@example.com", "Alex", "Rivera", "Engineering", model.StakeholderEmployee},
		{"sam.chen@example.com", "Sam", "Chen", "Engineering", model.StakeholderManager},
		{"jordan.okafor@example.com", "Jordan", "Okafor", "Engineering", model.StakeholderLeader},
		{"priya.nair@example.com", "Priya", "Nair", "Sales", model.StakeholderEmployee},
		{"marco.silva@example.com", "Marco", "Silva", "Sales", model.StakeholderManager},
	}

	now := time.Now()
	for _, seed := range seeds {
		inv := model.Invitation{
			Email:       seed.email,
			FirstName:   seed.first,
			LastName:    seed.last,
			Department:  seed.department,
			Stakeholder: seed.stakeholder,
			Status:      model.InvitationPending,
			SentAt:      &now,
			CreatedByID: admin.ID,
		}
		inv.ID = model.GenerateUUID()

		token, err := util.GenerateInviteToken(&inv, cfg.JWT.Secret)
		if err != nil {
			log.Fatalf("failed to sign invite token: %v", err)
		}
		inv.Token = token

		if err := db.Where("email = ? AND stakeholder = ?", inv.Email, inv.Stakeholder).
			FirstOrCreate(&inv).Error; err != nil {
			log.Fatalf("failed to seed invitation for %s: %v", inv.Email, err)
		}
		log.Printf("invitation %s (%s, %s) token: %s", inv.Email, inv.Stakeholder, inv.Department, inv.Token)
	}

	log.Println("seed complete")
}
