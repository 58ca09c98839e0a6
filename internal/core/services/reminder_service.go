package services

import (
	"context"
	"log"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ReminderService runs the daily collection jobs: due-date reminders,
// overdue marking and refresh token cleanup
type ReminderService struct {
	cron             *cron.Cron
	loanService      *LoanService
	loanRepo         repositories.LoanRepository
	applicantRepo    repositories.ApplicantRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifService     *NotificationService
}

// NewReminderService creates a new reminder service
func NewReminderService(
	loanService *LoanService,
	loanRepo repositories.LoanRepository,
	applicantRepo repositories.ApplicantRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifService *NotificationService,
) *ReminderService {
	return &ReminderService{
		cron:             cron.New(),
		loanService:      loanService,
		loanRepo:         loanRepo,
		applicantRepo:    applicantRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifService:     notifService,
	}
}

// Start registers and starts the scheduled jobs
func (s *ReminderService) Start() error {
	// Mark overdue installments shortly after midnight
	if _, err := s.cron.AddFunc("30 0 * * *", s.runOverdueJob); err != nil {
		return err
	}

	// Send due-today reminders at 09:00
	if _, err := s.cron.AddFunc("0 9 * * *", s.runDueReminderJob); err != nil {
		return err
	}

	// Purge expired refresh tokens at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", s.runTokenCleanupJob); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Reminder scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Reminder scheduler stopped")
}

// runOverdueJob flags overdue installments and notifies affected applicants
func (s *ReminderService) runOverdueJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	if _, err := s.loanService.MarkOverdue(ctx, now); err != nil {
		log.Printf("❌ Overdue job failed: %v", err)
		return
	}

	installments, err := s.loanRepo.ListInstallmentsOverdue(ctx, now)
	if err != nil {
		log.Printf("❌ Overdue job failed to list installments: %v", err)
		return
	}

	for _, installment := range installments {
		if installment.Loan == nil || installment.DaysOverdue == nil {
			continue
		}
		applicant, err := s.applicantRepo.GetByID(ctx, installment.Loan.ApplicantID)
		if err != nil {
			continue
		}
		s.notifService.NotifyOverdue(ctx, installment, applicant.ID, applicant.PhoneNumber, *installment.DaysOverdue)
	}
}

// runDueReminderJob reminds applicants about installments due today
func (s *ReminderService) runDueReminderJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	installments, err := s.loanRepo.ListInstallmentsDueOn(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Due reminder job failed: %v", err)
		return
	}

	for _, installment := range installments {
		if installment.Loan == nil {
			continue
		}
		applicant, err := s.applicantRepo.GetByID(ctx, installment.Loan.ApplicantID)
		if err != nil {
			continue
		}
		s.notifService.NotifyDueReminder(ctx, installment, applicant.ID, applicant.PhoneNumber)
	}

	if len(installments) > 0 {
		log.Printf("📨 Sent %d due reminder(s)", len(installments))
	}
}

// runTokenCleanupJob deletes expired refresh tokens
func (s *ReminderService) runTokenCleanupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
	}
}
