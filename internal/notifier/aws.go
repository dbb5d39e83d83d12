// internal/notifier/aws.go
package notifier

import (
	"context"
	"fmt"

	"leadbot/internal/common/config"
	stderr "leadbot/internal/common/errors"
	"leadbot/internal/common/logger"
	"leadbot/internal/common/metrics"
	"leadbot/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Interfaces for mocking the AWS clients in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AWSNotifier sends SMS via SNS, email via SES, and pages the on-call topic
// for the voice escalation.
type AWSNotifier struct {
	config config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

func NewAWSNotifier(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		config: cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

func (n *AWSNotifier) SMS(ctx context.Context, profile models.LeadProfile, score int) {
	body := fmt.Sprintf("HOT LEAD: %s (%s). Budget: %s. Location: %s. Score: %d",
		orUnknown(profile.Name), orValue(profile.PhoneNumber, "No Phone"),
		profile.BudgetRange, profile.TargetLocation, score)

	if n.config.DisableOutbound {
		n.logger.Info("sms suppressed (outbound disabled)", map[string]interface{}{"body": body})
		return
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.config.SalesTeamPhone),
		Message:     aws.String(body),
	})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues("sms").Inc()
		n.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeNotificationSendFailed, err.Error())).
			Error("sms send failed", map[string]interface{}{"channel": "sms"})
		return
	}
	metrics.NotificationsSent.WithLabelValues("sms").Inc()
}

func (n *AWSNotifier) Email(ctx context.Context, profile models.LeadProfile, sessionID string) {
	subject := fmt.Sprintf("New Qualified Lead - %s (%s)", profile.BudgetRange, profile.TargetLocation)
	htmlBody := fmt.Sprintf(`<h2>New High-Quality Lead</h2>
<p><strong>Session ID:</strong> %s</p>
<ul>
<li><strong>Name:</strong> %s</li>
<li><strong>Phone:</strong> %s</li>
<li><strong>Email:</strong> %s</li>
<li><strong>Investment:</strong> %s</li>
<li><strong>Budget:</strong> %s</li>
<li><strong>Type:</strong> %s</li>
<li><strong>Bedrooms:</strong> %s</li>
<li><strong>Location:</strong> %s</li>
<li><strong>Score:</strong> %d</li>
</ul>
<p>Please contact immediately.</p>`,
		sessionID, profile.Name, profile.PhoneNumber, profile.Email,
		profile.InvestmentType, profile.BudgetRange, profile.PropertyType,
		profile.Bedrooms, profile.TargetLocation, profile.LeadScore)

	if n.config.DisableOutbound {
		n.logger.Info("email suppressed (outbound disabled)", map[string]interface{}{"subject": subject})
		return
	}

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.config.SalesTeamEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues("email").Inc()
		n.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeNotificationSendFailed, err.Error())).
			Error("email send failed", map[string]interface{}{"channel": "email"})
		return
	}
	metrics.NotificationsSent.WithLabelValues("email").Inc()
}

// Call pages the on-call topic; the subscription on the topic drives the
// actual voice dial-out.
func (n *AWSNotifier) Call(ctx context.Context) {
	msg := "You have a new qualified lead waiting for your review. Please check the dashboard immediately."

	if n.config.DisableOutbound || n.config.OnCallTopicARN == "" {
		n.logger.Info("call escalation suppressed", map[string]interface{}{"outboundDisabled": n.config.DisableOutbound})
		return
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.OnCallTopicARN),
		Subject:  aws.String("Qualified lead escalation"),
		Message:  aws.String(msg),
	})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues("call").Inc()
		n.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeNotificationSendFailed, err.Error())).
			Error("call escalation failed", map[string]interface{}{"channel": "call"})
		return
	}
	metrics.NotificationsSent.WithLabelValues("call").Inc()
}

func orUnknown(s string) string {
	return orValue(s, "Unknown")
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
