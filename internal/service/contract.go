package service

import (
	"context"

	"gopkg.in/gomail.v2"
)

// EventPublisher hands domain events to the message queue.
type EventPublisher interface {
	Publish(ctx context.Context, msg []byte) error
}

// MailSender delivers a composed email message.
type MailSender interface {
	Send(message *gomail.Message) error
}
