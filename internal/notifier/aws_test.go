// internal/notifier/aws_test.go
package notifier

import (
	"context"
	"testing"

	"leadbot/internal/common/config"
	"leadbot/internal/common/logger"
	"leadbot/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func testConfig() config.NotificationConfig {
	return config.NotificationConfig{
		AWSRegion:      "us-east-1",
		SalesTeamEmail: "sales@example.com",
		SalesTeamPhone: "+15551230000",
		FromEmail:      "bot@example.com",
		OnCallTopicARN: "arn:aws:sns:us-east-1:123456789012:oncall",
	}
}

func hotLead() models.LeadProfile {
	return models.LeadProfile{
		Name:           "John Smith",
		PhoneNumber:    "+971501234567",
		BudgetRange:    "2 million dollars",
		TargetLocation: "Downtown",
		LeadScore:      130,
	}
}

func TestSMS(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewAWSNotifier(testConfig(), sesMock, snsMock, logger.NewNoOpLogger())

	n.SMS(context.Background(), hotLead(), 130)

	require.Len(t, snsMock.inputs, 1)
	input := snsMock.inputs[0]
	assert.Equal(t, "+15551230000", *input.PhoneNumber)
	assert.Contains(t, *input.Message, "John Smith")
	assert.Contains(t, *input.Message, "Score: 130")
}

func TestSMS_MissingFields(t *testing.T) {
	snsMock := &mockSNS{}
	n := NewAWSNotifier(testConfig(), &mockSES{}, snsMock, logger.NewNoOpLogger())

	n.SMS(context.Background(), models.NewLeadProfile(), 20)

	require.Len(t, snsMock.inputs, 1)
	assert.Contains(t, *snsMock.inputs[0].Message, "Unknown")
	assert.Contains(t, *snsMock.inputs[0].Message, "No Phone")
}

func TestEmail(t *testing.T) {
	sesMock := &mockSES{}
	n := NewAWSNotifier(testConfig(), sesMock, &mockSNS{}, logger.NewNoOpLogger())

	n.Email(context.Background(), hotLead(), "sess-1")

	require.Len(t, sesMock.inputs, 1)
	input := sesMock.inputs[0]
	assert.Equal(t, "bot@example.com", *input.Source)
	assert.Equal(t, []string{"sales@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, *input.Message.Body.Html.Data, "sess-1")
	assert.Contains(t, *input.Message.Body.Html.Data, "John Smith")
}

func TestCall(t *testing.T) {
	snsMock := &mockSNS{}
	n := NewAWSNotifier(testConfig(), &mockSES{}, snsMock, logger.NewNoOpLogger())

	n.Call(context.Background())

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:oncall", *snsMock.inputs[0].TopicArn)
}

func TestCall_NoTopicConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.OnCallTopicARN = ""
	snsMock := &mockSNS{}
	n := NewAWSNotifier(cfg, &mockSES{}, snsMock, logger.NewNoOpLogger())

	n.Call(context.Background())

	assert.Empty(t, snsMock.inputs)
}

func TestOutboundDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.DisableOutbound = true
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewAWSNotifier(cfg, sesMock, snsMock, logger.NewNoOpLogger())

	n.SMS(context.Background(), hotLead(), 130)
	n.Email(context.Background(), hotLead(), "sess-1")
	n.Call(context.Background())

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestSendFailuresAreSwallowed(t *testing.T) {
	sesMock := &mockSES{err: assert.AnError}
	snsMock := &mockSNS{err: assert.AnError}
	n := NewAWSNotifier(testConfig(), sesMock, snsMock, logger.NewNoOpLogger())

	// None of these may panic or propagate the error.
	n.SMS(context.Background(), hotLead(), 130)
	n.Email(context.Background(), hotLead(), "sess-1")
	n.Call(context.Background())

	assert.Len(t, snsMock.inputs, 2)
	assert.Len(t, sesMock.inputs, 1)
}
