package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/signalpost/signalpost/internal/notification"
	"github.com/signalpost/signalpost/internal/otp"
)

const (
	nameMinLen     = 3
	nameMaxLen     = 100
	phoneMinLen    = 6
	phoneMaxLen    = 15
	passwordMinLen = 6
	passwordMaxLen = 100

	// Codes expire five minutes after issuance in both flows, even when the
	// staged entry's own TTL is longer.
	codeTTL = 5 * time.Minute
)

// Options tunes the OTP lifecycle.
type Options struct {
	RegistrationTTL time.Duration
	ResetTTL        time.Duration
	MaxAttempts     int

	// EchoCode copies the generated code into the API receipt. Development
	// aid only; defaults off.
	EchoCode bool
}

func (o Options) withDefaults() Options {
	if o.RegistrationTTL <= 0 {
		o.RegistrationTTL = 300 * time.Second
	}
	if o.ResetTTL <= 0 {
		o.ResetTTL = 600 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	return o
}

// Service manages the identity lifecycle: OTP-gated registration, login
// checks and OTP-gated password resets.
type Service struct {
	repo       Repository
	challenges otp.Store
	notifier   notification.Notifier
	opts       Options

	now func() time.Time
}

// NewService creates an identity service.
func NewService(repo Repository, challenges otp.Store, notifier notification.Notifier, opts Options) *Service {
	return &Service{
		repo:       repo,
		challenges: challenges,
		notifier:   notifier,
		opts:       opts.withDefaults(),
		now:        time.Now,
	}
}

// RegistrationInput is the candidate payload for a new account.
type RegistrationInput struct {
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Receipt confirms an OTP was issued. ExpiresIn is the code's lifetime, which
// for resets is shorter than the staged entry's TTL. Code is populated only
// when EchoCode is enabled.
type Receipt struct {
	Code      string
	ExpiresIn time.Duration
}

// StartRegistration validates the candidate payload, stages it behind a fresh
// OTP and asks the notifier to deliver the code. No identity record is
// created yet.
func (s *Service) StartRegistration(ctx context.Context, in RegistrationInput) (Receipt, error) {
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateRegistration(in); err != nil {
		return Receipt{}, err
	}
	if _, err := s.repo.FindByPhone(ctx, in.Phone); err == nil {
		return Receipt{}, ValidationError{"phone": "an account with this phone number already exists"}
	} else if !errors.Is(err, ErrUserNotFound) {
		return Receipt{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Receipt{}, err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return Receipt{}, err
	}

	ch := otp.Challenge{
		Phone:        in.Phone,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Code:         code,
		ExpiresAt:    s.now().Add(codeTTL),
		MaxAttempts:  s.opts.MaxAttempts,
	}
	if err := s.challenges.Put(ctx, otp.RegistrationKey(in.Phone), ch, s.opts.RegistrationTTL); err != nil {
		return Receipt{}, err
	}

	msg := notification.OTPMessage(notification.KindRegistrationOTP, in.Phone, code)
	if err := s.notifier.Send(ctx, msg); err != nil {
		// The client would otherwise wait for a code that never arrives.
		_ = s.challenges.Delete(ctx, otp.RegistrationKey(in.Phone))
		return Receipt{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return s.receipt(code), nil
}

// ConfirmRegistration consumes the pending registration challenge and, on a
// correct code, materializes the identity record in active state. The
// consume step is atomic, so one challenge confirms at most one account.
func (s *Service) ConfirmRegistration(ctx context.Context, phone, code string) (User, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)

	ch, err := s.challenges.Consume(ctx, otp.RegistrationKey(phone), code)
	if err != nil {
		return User{}, mapChallengeErr(err)
	}

	user := User{
		ID:           uuid.New().String(),
		Phone:        ch.Phone,
		FirstName:    ch.FirstName,
		LastName:     ch.LastName,
		PasswordHash: ch.PasswordHash,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies phone+password against the identity store. Unknown
// phone, wrong password and inactive account all yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (User, error) {
	phone = strings.TrimSpace(phone)

	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset re-proves phone ownership before a password change by
// staging a fresh OTP for an existing account.
func (s *Service) RequestPasswordReset(ctx context.Context, phone string) (Receipt, error) {
	phone = strings.TrimSpace(phone)

	if _, err := s.repo.FindByPhone(ctx, phone); err != nil {
		return Receipt{}, err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return Receipt{}, err
	}

	ch := otp.Challenge{
		Phone:       phone,
		Code:        code,
		ExpiresAt:   s.now().Add(codeTTL),
		MaxAttempts: s.opts.MaxAttempts,
	}
	if err := s.challenges.Put(ctx, otp.ResetKey(phone), ch, s.opts.ResetTTL); err != nil {
		return Receipt{}, err
	}

	msg := notification.OTPMessage(notification.KindPasswordResetOTP, phone, code)
	if err := s.notifier.Send(ctx, msg); err != nil {
		_ = s.challenges.Delete(ctx, otp.ResetKey(phone))
		return Receipt{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return s.receipt(code), nil
}

// ConfirmPasswordReset consumes the pending reset challenge and, on a correct
// code, replaces the account's password hash.
func (s *Service) ConfirmPasswordReset(ctx context.Context, phone, code, newPassword string) error {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)

	if l := len(newPassword); l < passwordMinLen || l > passwordMaxLen {
		return ValidationError{"new_password": lengthMessage(passwordMinLen, passwordMaxLen)}
	}

	if _, err := s.challenges.Consume(ctx, otp.ResetKey(phone), code); err != nil {
		return mapChallengeErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, phone, hash)
}

func (s *Service) receipt(code string) Receipt {
	r := Receipt{ExpiresIn: codeTTL}
	if s.opts.EchoCode {
		r.Code = code
	}
	return r
}

func mapChallengeErr(err error) error {
	switch {
	case errors.Is(err, otp.ErrTooManyAttempts):
		return ErrOTPAttemptsExceeded
	case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrCodeMismatch):
		return ErrInvalidOTP
	default:
		return err
	}
}

func validateRegistration(in RegistrationInput) error {
	errs := ValidationError{}
	if l := len(in.FirstName); l < nameMinLen || l > nameMaxLen {
		errs["first_name"] = lengthMessage(nameMinLen, nameMaxLen)
	}
	if l := len(in.LastName); l < nameMinLen || l > nameMaxLen {
		errs["last_name"] = lengthMessage(nameMinLen, nameMaxLen)
	}
	if l := len(in.Phone); l < phoneMinLen || l > phoneMaxLen {
		errs["phone"] = lengthMessage(phoneMinLen, phoneMaxLen)
	}
	if l := len(in.Password); l < passwordMinLen || l > passwordMaxLen {
		errs["password"] = lengthMessage(passwordMinLen, passwordMaxLen)
	}
	if in.Password != in.ConfirmPassword {
		errs["confirm_password"] = "passwords must match"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func lengthMessage(min, max int) string {
	return fmt.Sprintf("must be between %d and %d characters", min, max)
}
