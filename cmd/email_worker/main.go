package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/config"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/mailer"
)

// sender is satisfied by *mailer.Mailgun.
type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type outcome int

const (
	ack outcome = iota
	drop
	retry
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch between workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			switch process(ctx, mg, msg.Body, msg.Redelivered, logger) {
			case ack:
				_ = msg.Ack(false)
			case drop:
				_ = msg.Nack(false, false)
			case retry:
				_ = msg.Nack(false, true)
			}
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// process renders and sends one queued job. Malformed jobs are dropped.
// A delivery failure is requeued once; a job that already came back from
// the queue is dropped so a persistent Mailgun outage cannot spin forever.
func process(ctx context.Context, s sender, body []byte, redelivered bool, logger *logrus.Logger) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(logger, "bad message", err, nil)
		return drop
	}
	helpers.EnsureRecipientAndEmail(&job)
	if err := helpers.ValidateJob(job); err != nil {
		helpers.LogWarn(logger, "invalid email job", err, logrus.Fields{"template": job.Template})
		return drop
	}
	subject, text, html, err := helpers.RenderJob(job)
	if err != nil {
		helpers.LogWarn(logger, fmt.Sprintf("render %s failed", job.Template), err, nil)
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html); err != nil {
		fields := logrus.Fields{"template": job.Template, "redelivered": redelivered}
		if redelivered {
			helpers.LogError(logger, "send failed again; dropping job", err, fields)
			return drop
		}
		helpers.LogWarn(logger, "send failed; requeueing once", err, fields)
		return retry
	}
	helpers.LogInfo(logger, "email sent", logrus.Fields{"template": job.Template})
	return ack
}
