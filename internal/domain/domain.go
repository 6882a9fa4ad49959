package domain

import (
	"github.com/okothm/tutorledger-backend/internal/domain/ledger"
	"github.com/okothm/tutorledger-backend/internal/domain/roster"
	"github.com/okothm/tutorledger-backend/internal/domain/user"
)

type User = user.User
type UserToken = user.UserToken

type LedgerEntry = ledger.Entry
type OpenProgress = ledger.OpenProgress
type ArchivedSnapshot = ledger.ArchivedSnapshot

type Assignment = roster.Assignment
type ControllerGrant = roster.ControllerGrant

const (
	RoleManager    = user.RoleManager
	RoleController = user.RoleController
	RoleStudent    = user.RoleStudent
	RoleTeacher    = user.RoleTeacher
	RoleReporter   = user.RoleReporter

	OutcomePresent    = ledger.OutcomePresent
	OutcomeAbsent     = ledger.OutcomeAbsent
	OutcomePermission = ledger.OutcomePermission

	AckUnset    = ledger.AckUnset
	AckApproved = ledger.AckApproved
	AckRejected = ledger.AckRejected

	ScheduleOpen   = ledger.ScheduleOpen
	ScheduleClosed = ledger.ScheduleClosed

	PayoutPending = ledger.PayoutPending
	PayoutPaid    = ledger.PayoutPaid

	DefaultSlotLabel       = roster.DefaultSlotLabel
	DefaultDurationMinutes = roster.DefaultDurationMinutes
)

var (
	ValidRole        = user.ValidRole
	ValidOutcome     = ledger.ValidOutcome
	CountsAsLearning = ledger.CountsAsLearning
)
