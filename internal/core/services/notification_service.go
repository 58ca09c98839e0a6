package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/config"
)

// Notification templates
const (
	TemplateOTP          = "OTP"
	TemplateDecision     = "DECISION"
	TemplateDisbursement = "DISBURSEMENT"
	TemplateDueReminder  = "DUE_REMINDER"
	TemplateOverdue      = "OVERDUE"
)

// NotificationService sends SMS notifications through the gateway and records
// every attempt in notification_logs
type NotificationService struct {
	notifRepo repositories.NotificationRepository
	client    *http.Client
	cfg       config.SMSConfig
	enabled   bool
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifRepo repositories.NotificationRepository, cfg *config.Config) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		client:    &http.Client{Timeout: 10 * time.Second},
		cfg:       cfg.SMS,
		enabled:   cfg.SMS.GatewayURL != "",
	}
}

// IsEnabled checks if SMS sending is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// smsPayload is the gateway request body
type smsPayload struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

// sendSMS posts a single message to the SMS gateway
func (s *NotificationService) sendSMS(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(smsPayload{
		To:       phone,
		Message:  message,
		SenderID: s.cfg.SenderID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// Send delivers an SMS and logs the attempt. A disabled gateway logs SKIPPED
// instead of failing the calling flow.
func (s *NotificationService) Send(ctx context.Context, applicantID *uint, phone, template, message string) error {
	entry := &models.NotificationLog{
		ApplicantID: applicantID,
		PhoneNumber: phone,
		Channel:     "SMS",
		Template:    template,
		Message:     message,
	}

	if !s.enabled {
		entry.Status = models.NotifStatusSkipped
		return s.notifRepo.Create(ctx, entry)
	}

	if err := s.sendSMS(ctx, phone, message); err != nil {
		entry.Status = models.NotifStatusFailed
		entry.Error = err.Error()
		if logErr := s.notifRepo.Create(ctx, entry); logErr != nil {
			log.Printf("❌ Failed to log notification: %v", logErr)
		}
		return err
	}

	entry.Status = models.NotifStatusSent
	return s.notifRepo.Create(ctx, entry)
}

// SendOTP sends a one-time passcode
func (s *NotificationService) SendOTP(ctx context.Context, phone, code string) error {
	message := fmt.Sprintf("%s is your QuickPaisa verification code. Valid for 5 minutes. Do not share it with anyone.", code)
	return s.Send(ctx, nil, phone, TemplateOTP, message)
}

// NotifyDecision informs the applicant about the outcome of an application
func (s *NotificationService) NotifyDecision(ctx context.Context, app *models.LoanApplication) {
	var message string
	switch app.Status {
	case models.AppStatusApproved:
		message = fmt.Sprintf("Good news! Your QuickPaisa loan application %s for Rs.%.2f has been approved.", app.AppNo, app.Amount)
	case models.AppStatusRejected:
		message = fmt.Sprintf("Your QuickPaisa loan application %s could not be approved at this time.", app.AppNo)
	default:
		message = fmt.Sprintf("Your QuickPaisa loan application %s is under review. We will update you shortly.", app.AppNo)
	}

	if err := s.Send(ctx, app.ApplicantID, app.PhoneNumber, TemplateDecision, message); err != nil {
		log.Printf("⚠️ Decision notification failed for %s: %v", app.AppNo, err)
	}
}

// NotifyDisbursement informs the applicant that the loan amount was transferred
func (s *NotificationService) NotifyDisbursement(ctx context.Context, loan *models.Loan, phone string) {
	applicantID := loan.ApplicantID
	message := fmt.Sprintf("Rs.%.2f has been credited to your bank account. Repayment due by %s. - QuickPaisa",
		loan.Principal, loan.DueDate.Format("02 Jan 2006"))

	if err := s.Send(ctx, &applicantID, phone, TemplateDisbursement, message); err != nil {
		log.Printf("⚠️ Disbursement notification failed for loan #%d: %v", loan.ID, err)
	}
}

// NotifyDueReminder reminds the applicant about an installment due today
func (s *NotificationService) NotifyDueReminder(ctx context.Context, installment *models.Installment, applicantID uint, phone string) {
	message := fmt.Sprintf("Reminder: your QuickPaisa installment of Rs.%.2f is due today (%s). Pay on time to keep your credit score healthy.",
		installment.Amount, installment.DueDate.Format("02 Jan 2006"))

	if err := s.Send(ctx, &applicantID, phone, TemplateDueReminder, message); err != nil {
		log.Printf("⚠️ Due reminder failed for installment #%d: %v", installment.ID, err)
	}
}

// NotifyOverdue warns the applicant about an overdue installment
func (s *NotificationService) NotifyOverdue(ctx context.Context, installment *models.Installment, applicantID uint, phone string, daysOverdue int) {
	message := fmt.Sprintf("Your QuickPaisa installment of Rs.%.2f is %d day(s) overdue. Please pay immediately to avoid penalties.",
		installment.Amount, daysOverdue)

	if err := s.Send(ctx, &applicantID, phone, TemplateOverdue, message); err != nil {
		log.Printf("⚠️ Overdue notification failed for installment #%d: %v", installment.ID, err)
	}
}
