// services/report_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"barbertrack-backend/metrics"
	"barbertrack-backend/models"
	"barbertrack-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageSender delivers a text message and returns the provider message id.
type MessageSender interface {
	Send(to, body string) (string, error)
}

// TwilioSender sends over WhatsApp when the number is in E.164 form and over
// SMS otherwise.
type TwilioSender struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsAppFrom string
}

func NewTwilioSender(accountSid, authToken, smsFrom, whatsAppFrom string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		smsFrom:      smsFrom,
		whatsAppFrom: whatsAppFrom,
	}
}

func (t *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if Channel(to) == "whatsapp" {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(t.smsFrom)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// Channel picks the delivery channel for a phone number.
func Channel(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return "whatsapp"
	}
	return "sms"
}

// DailyReport is the aggregated view of one day.
type DailyReport struct {
	Date     time.Time              `json:"date"`
	Services []models.ServiceType   `json:"services"`
	Stats    []models.EmployeeStats `json:"stats"`
	Summary  Summary                `json:"summary"`
}

// ReportService builds today's per-employee counts and, on a schedule, sends
// them to the shop admins.
type ReportService struct {
	store  ReportStore
	sender MessageSender
	agg    Aggregator
	log    logrus.FieldLogger
	now    func() time.Time
	cron   *cron.Cron
}

func NewReportService(store ReportStore, sender MessageSender, agg Aggregator, log logrus.FieldLogger) *ReportService {
	return &ReportService{store: store, sender: sender, agg: agg, log: log, now: time.Now}
}

// StartScheduler runs SendDailyReport on spec (standard five-field cron).
func (s *ReportService) StartScheduler(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.SendDailyReport(ctx); err != nil {
			s.log.WithError(err).Error("daily report failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.WithField("schedule", spec).Info("daily report scheduler started")
	return nil
}

func (s *ReportService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Today aggregates today's transactions under caller's access policy.
func (s *ReportService) Today(ctx context.Context, caller models.Caller) (DailyReport, error) {
	return s.build(ctx, PolicyFor(caller))
}

func (s *ReportService) build(ctx context.Context, policy AccessPolicy) (DailyReport, error) {
	day := utils.BeginningOfDay(s.now())

	employees, err := s.store.ActiveEmployees(ctx)
	if err != nil {
		return DailyReport{}, fmt.Errorf("load employees: %w", err)
	}
	services, err := s.store.ActiveServiceTypes(ctx)
	if err != nil {
		return DailyReport{}, fmt.Errorf("load service types: %w", err)
	}
	filter := policy.TransactionFilter()
	filter.Since = &day
	txs, err := s.store.Transactions(ctx, filter)
	if err != nil {
		return DailyReport{}, fmt.Errorf("load transactions: %w", err)
	}

	stats := s.agg.Aggregate(policy.Roster(employees), services, policy.Filter(txs))
	return DailyReport{Date: day, Services: services, Stats: stats, Summary: Summarize(stats)}, nil
}

// SendDailyReport sends today's summary to every active admin with a phone
// number and logs each attempt.
func (s *ReportService) SendDailyReport(ctx context.Context) error {
	s.log.Info("starting daily report")

	admins, err := s.store.ActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	if len(admins) == 0 {
		s.log.Info("no active admins, skipping daily report")
		return nil
	}

	// The report covers the whole shop, so it is built under an admin policy.
	report, err := s.build(ctx, PolicyFor(admins[0].Caller()))
	if err != nil {
		return err
	}
	message := FormatDailyReport(report)

	for _, admin := range admins {
		if admin.Phone == nil || *admin.Phone == "" {
			continue
		}
		s.deliver(ctx, admin, report.Date, message)
	}

	s.log.WithField("transactions", report.Summary.TotalTransactions).Info("daily report completed")
	return nil
}

func (s *ReportService) deliver(ctx context.Context, admin models.Profile, day time.Time, message string) {
	phone := *admin.Phone
	channel := Channel(phone)
	status := "sent"
	errorMsg := ""

	log := s.log.WithFields(logrus.Fields{"recipient": admin.ID, "channel": channel})
	sid, err := s.sender.Send(phone, message)
	if err != nil {
		log.WithError(err).Error("failed to send daily report")
		status = "failed"
		errorMsg = err.Error()
	} else {
		log.WithField("sid", sid).Info("daily report sent")
	}
	metrics.RecordReportDelivery(channel, status)

	reportLog := models.ReportLog{
		RecipientID:  admin.ID,
		ReportDate:   day,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       s.now(),
	}
	if err := s.store.CreateReportLog(ctx, &reportLog); err != nil {
		log.WithError(err).Error("failed to log daily report")
	}
}

// FormatDailyReport renders a report as a short text message, one line per
// employee with service counts in display order.
func FormatDailyReport(r DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report %s: %d services by %d employees\n",
		r.Date.Format("2006-01-02"), r.Summary.TotalTransactions, r.Summary.ActiveEmployees)
	for _, stat := range r.Stats {
		parts := make([]string, 0, len(r.Services))
		for _, col := range Columns(stat, r.Services) {
			if col.Count > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", col.Name, col.Count))
			}
		}
		line := fmt.Sprintf("%s: %d", stat.Profile.FullName, stat.TotalCount)
		if len(parts) > 0 {
			line += " (" + strings.Join(parts, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
