package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/okothm/tutorledger-backend/internal/clients/redis"
	"github.com/okothm/tutorledger-backend/internal/data/repos"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

const (
	OwnerKindOpenProgress     = "open_progress"
	OwnerKindArchivedSnapshot = "archived_snapshot"

	calendarCacheTTL = 60 * time.Second
)

type CalendarDay struct {
	Date       string `json:"date"`
	SlotLabel  string `json:"slot_label"`
	Outcome    string `json:"outcome"`
	StudentAck string `json:"student_ack"`
	Archived   bool   `json:"archived"`
}

type StudentCalendar struct {
	StudentID uuid.UUID     `json:"student_id"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	Days      []CalendarDay `json:"days"`
}

type StudentDashboard struct {
	Progress      []*types.OpenProgress     `json:"progress"`
	Assignment    *types.Assignment         `json:"assignment,omitempty"`
	Snapshots     []*types.ArchivedSnapshot `json:"snapshots"`
	RecentEntries []*types.LedgerEntry      `json:"recent_entries"`
}

// ReportingService is the read side: entry listings by owning aggregate,
// per-student calendars and the dashboard view. Nothing here mutates state.
type ReportingService interface {
	ListEntriesByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]*types.LedgerEntry, error)
	GetOpenProgress(ctx context.Context, studentID, teacherID uuid.UUID) (*types.OpenProgress, error)
	ListProgressByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.OpenProgress, error)
	ListSnapshotsByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ArchivedSnapshot, error)
	ListSnapshotsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.ArchivedSnapshot, error)
	StudentMonthCalendar(ctx context.Context, studentID uuid.UUID, year int, month time.Month) (*StudentCalendar, error)
	GetStudentDashboard(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error)
}

type reportingService struct {
	db           *gorm.DB
	log          *logger.Logger
	cache        redisclient.Cache
	userRepo     repos.UserRepo
	grantRepo    repos.ControllerGrantRepo
	entryRepo    repos.EntryRepo
	progressRepo repos.OpenProgressRepo
	snapshotRepo repos.ArchivedSnapshotRepo
	assignRepo   repos.AssignmentRepo
}

// NewReportingService accepts a nil cache; views then always hit the store.
func NewReportingService(
	gdb *gorm.DB,
	log *logger.Logger,
	cache redisclient.Cache,
	userRepo repos.UserRepo,
	grantRepo repos.ControllerGrantRepo,
	entryRepo repos.EntryRepo,
	progressRepo repos.OpenProgressRepo,
	snapshotRepo repos.ArchivedSnapshotRepo,
	assignRepo repos.AssignmentRepo,
) ReportingService {
	serviceLog := log.With("service", "ReportingService")
	return &reportingService{
		db:           gdb,
		log:          serviceLog,
		cache:        cache,
		userRepo:     userRepo,
		grantRepo:    grantRepo,
		entryRepo:    entryRepo,
		progressRepo: progressRepo,
		snapshotRepo: snapshotRepo,
		assignRepo:   assignRepo,
	}
}

func (s *reportingService) ListEntriesByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]*types.LedgerEntry, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}

	switch ownerKind {
	case OwnerKindOpenProgress:
		progress, err := s.progressRepo.GetByID(ctx, s.db, ownerID)
		if err != nil {
			return nil, wrapTxErr(err)
		}
		if progress == nil {
			return nil, fmt.Errorf("%w: progress %s", pkgerr.ErrNotFound, ownerID)
		}
		if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, progress.StudentID); err != nil {
			if authorizeTeacherRead(actor, progress.TeacherID) != nil {
				return nil, err
			}
		}
		entries, err := s.entryRepo.GetByOpenProgressIDs(ctx, s.db, []uuid.UUID{ownerID})
		if err != nil {
			return nil, wrapTxErr(err)
		}
		return entries, nil
	case OwnerKindArchivedSnapshot:
		snapshot, err := s.snapshotRepo.GetByID(ctx, s.db, ownerID)
		if err != nil {
			return nil, wrapTxErr(err)
		}
		if snapshot == nil {
			return nil, fmt.Errorf("%w: snapshot %s", pkgerr.ErrNotFound, ownerID)
		}
		if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, snapshot.StudentID); err != nil {
			if authorizeTeacherRead(actor, snapshot.TeacherID) != nil {
				return nil, err
			}
		}
		entries, err := s.entryRepo.GetBySnapshotIDs(ctx, s.db, []uuid.UUID{ownerID})
		if err != nil {
			return nil, wrapTxErr(err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: unknown owner kind %q", pkgerr.ErrNotFound, ownerKind)
	}
}

func (s *reportingService) GetOpenProgress(ctx context.Context, studentID, teacherID uuid.UUID) (*types.OpenProgress, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		if authorizeTeacherRead(actor, teacherID) != nil {
			return nil, err
		}
	}
	progress, err := s.progressRepo.GetOpenByPair(ctx, s.db, studentID, teacherID)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	if progress == nil {
		return nil, fmt.Errorf("%w: no open progress for pair", pkgerr.ErrNotFound)
	}
	return progress, nil
}

func (s *reportingService) ListProgressByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.OpenProgress, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.GetByStudentID(ctx, s.db, studentID)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return rows, nil
}

func (s *reportingService) ListSnapshotsByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ArchivedSnapshot, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		return nil, err
	}
	rows, err := s.snapshotRepo.GetByStudentID(ctx, s.db, studentID)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return rows, nil
}

func (s *reportingService) ListSnapshotsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.ArchivedSnapshot, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeTeacherRead(actor, teacherID); err != nil {
		return nil, err
	}
	rows, err := s.snapshotRepo.GetByTeacherID(ctx, s.db, teacherID)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return rows, nil
}

func (s *reportingService) StudentMonthCalendar(ctx context.Context, studentID uuid.UUID, year int, month time.Month) (*StudentCalendar, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("calendar:%s:%04d-%02d", studentID, year, int(month))
	if s.cache != nil {
		var cached StudentCalendar
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("calendar cache read failed", "key", key, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	entries, err := s.entryRepo.GetByStudentAndDateRange(ctx, s.db, studentID, from, to)
	if err != nil {
		return nil, wrapTxErr(err)
	}

	calendar := &StudentCalendar{
		StudentID: studentID,
		Year:      year,
		Month:     int(month),
		Days:      make([]CalendarDay, 0, len(entries)),
	}
	for _, e := range entries {
		calendar.Days = append(calendar.Days, CalendarDay{
			Date:       time.Time(e.Date).Format("2006-01-02"),
			SlotLabel:  e.SlotLabel,
			Outcome:    e.Outcome,
			StudentAck: e.StudentAck,
			Archived:   e.ArchivedSnapshotID != nil,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, calendar, calendarCacheTTL); err != nil {
			s.log.Warn("calendar cache write failed", "key", key, "error", err)
		}
	}
	return calendar, nil
}

// GetStudentDashboard fans the independent reads out over the pool; each
// query runs on its own connection.
func (s *reportingService) GetStudentDashboard(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		return nil, err
	}

	dashboard := &StudentDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.progressRepo.GetByStudentID(gctx, nil, studentID)
		if err != nil {
			return err
		}
		dashboard.Progress = rows
		return nil
	})
	g.Go(func() error {
		assignment, err := s.assignRepo.GetByStudentID(gctx, nil, studentID)
		if err != nil {
			return err
		}
		dashboard.Assignment = assignment
		return nil
	})
	g.Go(func() error {
		rows, err := s.snapshotRepo.GetByStudentID(gctx, nil, studentID)
		if err != nil {
			return err
		}
		dashboard.Snapshots = rows
		return nil
	})
	g.Go(func() error {
		to := time.Now().UTC().AddDate(0, 0, 1)
		from := to.AddDate(0, 0, -15)
		rows, err := s.entryRepo.GetByStudentAndDateRange(gctx, nil, studentID, from, to)
		if err != nil {
			return err
		}
		dashboard.RecentEntries = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, wrapTxErr(err)
	}
	return dashboard, nil
}
