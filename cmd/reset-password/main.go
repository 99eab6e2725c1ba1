package main

import (
	"flag"
	"os"

	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	email := flag.String("email", cfg.Seed.AdminEmail, "login (e-mail or username) of the account to reset")
	password := flag.String("password", os.Getenv("NEW_PASSWORD"), "new password, at least 6 characters")
	role := flag.String("role", "", "optionally also set the role (admin, manager, cashier)")
	flag.Parse()

	if err := logger.Init(cfg.Server.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	if len(*password) < 6 {
		log.Fatal("new password must be at least 6 characters; pass -password or set NEW_PASSWORD")
	}
	if *role != "" && !model.IsValidRole(*role) {
		log.Fatal("unknown role", zap.String("role", *role))
	}

	db, err := database.ConnectDB(cfg.Database.DSN(), cfg.Server.IsProduction())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByLogin(*email)
	if err != nil {
		log.Fatal("user not found", zap.String("login", *email), zap.Error(err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}
	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}

	user.IsActive = true
	if *role != "" {
		user.Role = *role
	}
	user.Password = string(hashedPassword)
	user.UpdatedBy = "reset-password"
	if err := userRepo.Update(user); err != nil {
		log.Fatal("failed to reactivate user", zap.Error(err))
	}

	// Existing sessions end with the old password
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.Fatal("failed to revoke sessions", zap.Error(err))
	}

	log.Info("password reset", zap.String("email", user.Email), zap.String("role", user.Role))
}
