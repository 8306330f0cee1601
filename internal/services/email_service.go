package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	pkglogger "github.com/scholarspace/user-service/pkg/logger"
)

// Mailer delivers password reset tokens. Delivery failure never fails the
// reset request itself.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error
}

// SESMailer sends mail through AWS SES.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
	resetURL    string
	logger      *slog.Logger
}

func NewSESMailer(region, fromAddress, resetURL string, logger *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		resetURL:    resetURL,
		logger:      logger,
	}, nil
}

func (m *SESMailer) SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error {
	resetLink := fmt.Sprintf("%s?token=%s", m.resetURL, token)

	textBody := fmt.Sprintf(
		"A password reset was requested for your ScholarSpace account.\n\n"+
			"Open the link below to choose a new password. The link expires at %s.\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.",
		expiresAt.UTC().Format(time.RFC1123), resetLink,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String("ScholarSpace password reset")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	m.logger.Info("password reset email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)))
	return nil
}

// LogMailer is the development fallback: it logs that a token was issued
// instead of delivering it. The token value itself stays out of the logs.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, email, token string, expiresAt time.Time) error {
	m.logger.Info("password reset token issued (email delivery disabled)",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.Time("expires_at", expiresAt))
	return nil
}
