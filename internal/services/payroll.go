package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type PayrollSummary struct {
	TeacherID     uuid.UUID `json:"teacher_id"`
	PeriodYear    int       `json:"period_year"`
	PeriodMonth   int       `json:"period_month"`
	LearningCount int64     `json:"learning_count"`
}

// PayrollService sums payable ledger entries per teacher and calendar
// month. Entries count when the student was present or excused; absences
// do not pay.
type PayrollService interface {
	MonthlySummary(ctx context.Context, teacherID uuid.UUID, year int, month time.Month) (*PayrollSummary, error)
}

type payrollService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	entryRepo repos.EntryRepo
}

func NewPayrollService(gdb *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, entryRepo repos.EntryRepo) PayrollService {
	serviceLog := log.With("service", "PayrollService")
	return &payrollService{db: gdb, log: serviceLog, userRepo: userRepo, entryRepo: entryRepo}
}

func (s *payrollService) MonthlySummary(ctx context.Context, teacherID uuid.UUID, year int, month time.Month) (*PayrollSummary, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeTeacherRead(actor, teacherID); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December || year < 2000 {
		return nil, fmt.Errorf("%w: period %04d-%02d", pkgerr.ErrInvalidDate, year, int(month))
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	count, err := s.entryRepo.SumLearningByTeacherAndDateRange(ctx, s.db, teacherID, from, to)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return &PayrollSummary{
		TeacherID:     teacherID,
		PeriodYear:    year,
		PeriodMonth:   int(month),
		LearningCount: count,
	}, nil
}
