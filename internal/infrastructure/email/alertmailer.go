package email

import (
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"

	"sequor/internal/shared/logger"
)

type SMTPConfig struct {
	Host                 string
	Port                 int
	Username             string
	Password             string
	FromAddress          string
	FromName             string
	AdminAddress         string
	UtilizationThreshold float64 // fraction of MaxSequence that triggers a warning, e.g. 0.9
}

// AlertMailer sends capacity warnings to the operator address when a rule
// approaches or hits sequence exhaustion. Sends are asynchronous and
// deduplicated per rule and period, so a hot rule emits one warning per
// window instead of one per allocation.
type AlertMailer struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger logger.Interface

	mu       sync.Mutex
	notified map[string]bool // entityCode:periodKey pairs already alerted
}

func NewAlertMailer(config SMTPConfig, logger logger.Interface) *AlertMailer {
	if config.UtilizationThreshold <= 0 || config.UtilizationThreshold > 1 {
		config.UtilizationThreshold = 0.9
	}

	return &AlertMailer{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger:   logger,
		notified: map[string]bool{},
	}
}

// NotifySequenceOverflow reports a rule that refused an allocation because
// its digit length is exhausted.
func (m *AlertMailer) NotifySequenceOverflow(entityCode string, digitLength int, periodKey string) {
	if !m.markOnce("overflow:" + entityCode + ":" + periodKey) {
		return
	}

	subject := fmt.Sprintf("[sequor] sequence exhausted for %s", entityCode)
	body := fmt.Sprintf(`Code allocation for entity type %s is failing.

The sequence capacity for digit length %d is exhausted in period %s.
Widen the digit length or switch to a shorter reset cycle to resume
allocation. Existing codes are unaffected.`, entityCode, digitLength, periodKey)

	m.sendAsync(entityCode, subject, body)
}

// NotifyCapacityThreshold reports a rule crossing the configured utilization
// threshold. Calls below the threshold are ignored.
func (m *AlertMailer) NotifyCapacityThreshold(entityCode string, used, max int64, periodKey string) {
	if max <= 0 || float64(used)/float64(max) < m.config.UtilizationThreshold {
		return
	}
	if !m.markOnce("threshold:" + entityCode + ":" + periodKey) {
		return
	}

	subject := fmt.Sprintf("[sequor] %s is near sequence capacity", entityCode)
	body := fmt.Sprintf(`Entity type %s has used %d of %d sequence numbers in period %s.

Allocation will start failing once the capacity is exhausted. Consider
widening the digit length or shortening the reset cycle.`, entityCode, used, max, periodKey)

	m.sendAsync(entityCode, subject, body)
}

// markOnce records the alert key and reports whether it was new.
func (m *AlertMailer) markOnce(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.notified[key] {
		return false
	}
	m.notified[key] = true
	return true
}

func (m *AlertMailer) sendAsync(entityCode, subject, body string) {
	if m.config.AdminAddress == "" {
		m.logger.Warnw("capacity alert dropped, no admin address configured",
			"entity_code", entityCode,
			"subject", subject,
		)
		return
	}

	go func() {
		msg := gomail.NewMessage()
		msg.SetAddressHeader("From", m.config.FromAddress, m.config.FromName)
		msg.SetHeader("To", m.config.AdminAddress)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		if err := m.dialer.DialAndSend(msg); err != nil {
			m.logger.Errorw("failed to send capacity alert",
				"entity_code", entityCode,
				"error", err,
			)
			return
		}

		m.logger.Infow("capacity alert sent",
			"entity_code", entityCode,
			"to", m.config.AdminAddress,
		)
	}()
}
