package notification

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// KindRegistrationOTP is an OTP delivery for a pending registration.
	KindRegistrationOTP = "registration_otp"
	// KindPasswordResetOTP is an OTP delivery for a pending password reset.
	KindPasswordResetOTP = "password_reset_otp"
)

// Message describes a notification payload addressed to a phone number.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// OTPMessage builds the out-of-band delivery for a verification code.
func OTPMessage(kind, phone, code string) Message {
	return Message{
		Kind:        kind,
		Destination: phone,
		Body:        fmt.Sprintf("Your Signalpost verification code is %s", code),
	}
}

// Notifier delivers notifications out-of-band (SMS/voice). Delivery may fail;
// callers must surface the error rather than pretend the code went out.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger. The OTP itself is not
// logged, only its destination and kind.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination)
	return nil
}
