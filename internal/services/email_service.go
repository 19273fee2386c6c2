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

	appconfig "github.com/dextersy/label-dashboard/internal/config"
	"github.com/dextersy/label-dashboard/internal/models"
	pkglogger "github.com/dextersy/label-dashboard/pkg/logger"
)

// EmailLogAppender records outbound email in the audit log table.
type EmailLogAppender interface {
	Append(ctx context.Context, log *models.EmailLog) error
}

// AWSSESEmailService sends account lifecycle mail and operator alerts using
// AWS SES. Every send, successful or not, is appended to the email log.
type AWSSESEmailService struct {
	sesClient      *ses.Client
	emailLogs      EmailLogAppender
	fromAddress    string
	alertEmail     string
	setupURL       string
	inviteLifetime string
	resetLifetime  string
	logger         *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service. The token expiry
// durations drive the "link expires in" wording so the mail always matches
// the configured lifetimes.
func NewAWSSESEmailService(cfg appconfig.EmailConfig, inviteTokenExpiry, resetTokenExpiry time.Duration, emailLogs EmailLogAppender, logger *slog.Logger) (*AWSSESEmailService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:      ses.NewFromConfig(awsCfg),
		emailLogs:      emailLogs,
		fromAddress:    cfg.FromAddress,
		alertEmail:     cfg.AlertEmail,
		setupURL:       cfg.SetupURLBase,
		inviteLifetime: linkLifetime(inviteTokenExpiry),
		resetLifetime:  linkLifetime(resetTokenExpiry),
		logger:         logger,
	}, nil
}

// linkLifetime renders a token expiry for human readers, e.g. "72 hours",
// "1 hour" or "30 minutes". Sub-minute durations round up to a minute.
func linkLifetime(d time.Duration) string {
	if d >= time.Hour {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(d / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// SendInviteEmail sends the account setup link to a newly invited user
func (s *AWSSESEmailService) SendInviteEmail(ctx context.Context, brandID *string, recipient, name, token string) error {
	setupLink := fmt.Sprintf("%s/setup-profile?token=%s", s.setupURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1>You've been invited</h1>
        <p>Hi %s,</p>
        <p>An account has been created for you. Click the link below to choose a password and finish setting up your profile:</p>
        <p><a href="%s" style="display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Set up your account</a></p>
        <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
        <p>This link expires in %s. If you weren't expecting this invitation you can ignore this email.</p>
    </div>
</body>
</html>
`, name, setupLink, setupLink, s.inviteLifetime)

	textBody := fmt.Sprintf(`Hi %s,

An account has been created for you. Open the link below to choose a password and finish setting up your profile:

%s

This link expires in %s. If you weren't expecting this invitation you can ignore this email.
`, name, setupLink, s.inviteLifetime)

	err := s.send(ctx, recipient, "You've been invited", htmlBody, textBody)
	s.appendLog(ctx, brandID, recipient, "You've been invited", models.EmailKindInvite, err)
	return err
}

// SendPasswordResetEmail sends a password reset link
func (s *AWSSESEmailService) SendPasswordResetEmail(ctx context.Context, brandID *string, recipient, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.setupURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1>Reset your password</h1>
        <p>Someone requested a password reset for this account. Click the link below to choose a new password:</p>
        <p><a href="%s" style="display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset password</a></p>
        <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
        <p>This link expires in %s. If you didn't request a reset, your password is unchanged and you can ignore this email.</p>
    </div>
</body>
</html>
`, resetLink, resetLink, s.resetLifetime)

	textBody := fmt.Sprintf(`Someone requested a password reset for this account. Open the link below to choose a new password:

%s

This link expires in %s. If you didn't request a reset, your password is unchanged and you can ignore this email.
`, resetLink, s.resetLifetime)

	err := s.send(ctx, recipient, "Reset your password", htmlBody, textBody)
	s.appendLog(ctx, brandID, recipient, "Reset your password", models.EmailKindPasswordReset, err)
	return err
}

// NotifyLockout emails the operator alert address when an account locks.
// Alerts are best effort: failures are logged but never surfaced to the
// login path.
func (s *AWSSESEmailService) NotifyLockout(ctx context.Context, username, remoteIP, proxyIP string) {
	if s.alertEmail == "" {
		return
	}

	subject := "Account lockout alert"
	textBody := fmt.Sprintf(`A console account was locked after repeated failed login attempts.

Username:  %s
Remote IP: %s
Proxy IP:  %s

The lock releases automatically once the failure window expires.
`, pkglogger.SanitizedEmail(username), remoteIP, proxyIP)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1>Account lockout alert</h1>
        <p>A console account was locked after repeated failed login attempts.</p>
        <ul>
            <li><strong>Username:</strong> %s</li>
            <li><strong>Remote IP:</strong> %s</li>
            <li><strong>Proxy IP:</strong> %s</li>
        </ul>
        <p>The lock releases automatically once the failure window expires.</p>
    </div>
</body>
</html>
`, pkglogger.SanitizedEmail(username), remoteIP, proxyIP)

	err := s.send(ctx, s.alertEmail, subject, htmlBody, textBody)
	if err != nil {
		s.logger.Error("failed to send lockout alert",
			slog.String("username", pkglogger.SanitizedEmail(username)),
			slog.Any("error", err))
	}
	s.appendLog(ctx, nil, s.alertEmail, subject, models.EmailKindLockoutAlert, err)
}

func (s *AWSSESEmailService) send(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("recipient", pkglogger.SanitizedEmail(recipient)),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		slog.String("recipient", pkglogger.SanitizedEmail(recipient)),
		slog.String("subject", subject),
		slog.String("message_id", *result.MessageId))

	return nil
}

func (s *AWSSESEmailService) appendLog(ctx context.Context, brandID *string, recipient, subject, kind string, sendErr error) {
	entry := &models.EmailLog{
		BrandID:   brandID,
		Recipient: recipient,
		Subject:   subject,
		Kind:      kind,
		Status:    models.EmailStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		msg := sendErr.Error()
		entry.Error = &msg
	}

	if err := s.emailLogs.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append email log", slog.Any("error", err))
	}
}
