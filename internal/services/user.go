package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(gdb *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: gdb, log: serviceLog, userRepo: userRepo}
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
	return requireActor(ctx, s.db, s.userRepo)
}
