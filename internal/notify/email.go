package notify

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"trivia-quiz-service/internal/domain"

	"go.uber.org/zap"
)

const (
	scoreSubject     = "Your Quiz Score"
	defaultRecipient = "guest"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a Message.
type Sender interface {
	Send(msg Message) error
}

// SMTPConfig locates the SMTP relay. Username empty means no auth.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail through a single SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	port := cfg.Port
	if port <= 0 {
		port = 587
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := s.send(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// ScoreNotifier emails quiz scores in the background. Failures never reach
// the caller; they are logged.
type ScoreNotifier struct {
	sender Sender
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewScoreNotifier(sender Sender, log *zap.Logger) *ScoreNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoreNotifier{sender: sender, log: log}
}

// ScoreMessage builds the score email. An empty score yields
// domain.ErrScoreRequired; an empty recipient becomes "guest".
func ScoreMessage(score, userID string) (Message, error) {
	if strings.TrimSpace(score) == "" {
		return Message{}, domain.ErrScoreRequired
	}
	if userID == "" {
		userID = defaultRecipient
	}
	return Message{
		To:      userID,
		Subject: scoreSubject,
		Body:    fmt.Sprintf("You scored %s points.", score),
	}, nil
}

// Notify queues the score email and returns immediately.
func (n *ScoreNotifier) Notify(score, userID string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(score, userID)
	}()
}

// Wait blocks until every queued email has been attempted.
func (n *ScoreNotifier) Wait() {
	n.wg.Wait()
}

func (n *ScoreNotifier) deliver(score, userID string) {
	msg, err := ScoreMessage(score, userID)
	if err != nil {
		n.log.Error("score email not sent", zap.String("user", userID), zap.Error(err))
		return
	}
	if err := n.sender.Send(msg); err != nil {
		n.log.Error("score email failed", zap.String("to", msg.To), zap.Error(err))
		return
	}
	n.log.Info("score email sent", zap.String("to", msg.To))
}
