package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fathoor/library-service/config"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"
)

// NotificationService consumes borrow events and emails the borrower. Delivery
// is best effort; nothing here reports back to the lending workflow.
type NotificationService interface {
	ConsumeEvents()
}

type NotificationServiceImpl struct {
	kafkaReader *kafka.Reader
	sender      MailSender
	breaker     *gobreaker.CircuitBreaker[interface{}]
	config      config.Config
}

func CreateNewNotificationService(kafkaReader *kafka.Reader, sender MailSender, breaker *gobreaker.CircuitBreaker[interface{}], config config.Config) *NotificationServiceImpl {
	return &NotificationServiceImpl{kafkaReader: kafkaReader, sender: sender, breaker: breaker, config: config}
}

func (s *NotificationServiceImpl) ConsumeEvents() {
	for {
		msg, err := s.kafkaReader.ReadMessage(context.Background())
		if err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvents").Msg("")
			continue
		}

		s.HandleMessage(msg.Value)
	}
}

func (s *NotificationServiceImpl) HandleMessage(value []byte) {
	var receivedMsg dto.KafkaMessage
	if err := json.Unmarshal(value, &receivedMsg); err != nil {
		log.Error().Err(err).Str("component", "HandleMessage").Msg("")
		return
	}

	switch receivedMsg.EventType {
	case "book_borrowed":
		var event dto.BookBorrowedEvent
		dataBytes, err := json.Marshal(receivedMsg.Data)
		if err != nil {
			log.Error().Err(err).Str("component", "HandleMessage").Msg("")
			return
		}

		if err := json.Unmarshal(dataBytes, &event); err != nil {
			log.Error().Err(err).Str("component", "HandleMessage").Msg("")
			return
		}

		if err := s.sendBookBorrowedMail(event); err != nil {
			log.Error().Err(err).Str("component", "HandleMessage").Str("email", event.UserEmail).Msg("failed to send borrow notification")
			return
		}
	default:
		log.Info().Str("component", "HandleMessage").Str("event_type", receivedMsg.EventType).Msg("unknown event type")
	}
}

func (s *NotificationServiceImpl) sendBookBorrowedMail(event dto.BookBorrowedEvent) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.config.SMTPConfig.Sender)
	message.SetHeader("To", event.UserEmail)
	message.SetHeader("Subject", "Book Borrowed Mail")
	message.SetBody("text/html", fmt.Sprintf("<p>Hello %s,</p><p>You have borrowed <strong>%s</strong>. Please return it on time.</p>", event.UserName, event.BookName))

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.sender.Send(message)
	})

	return err
}

// SMTPMailSender delivers through the configured SMTP relay.
type SMTPMailSender struct {
	Config config.SMTPConfig
}

func (s SMTPMailSender) Send(message *gomail.Message) error {
	return utils.SendEmail(message, s.Config.Sender, s.Config.Password, s.Config.Host, s.Config.Port)
}
