package senddecisionnotification

import (
	"context"
	"time"

	awsclients "coaching-workers/internal/common/aws"
	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-decision-notification"

	charset = "UTF-8"
)

type Handler struct {
	config       *Config
	sesClient    awsclients.SESService
	snsClient    awsclients.SNSService
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, sesClient awsclients.SESService, snsClient awsclients.SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		sesClient:    sesClient,
		snsClient:    snsClient,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.ParseVariables(job, inputSchema, &input); err != nil {
		camunda.FailJob(context.Background(), client, job, h.errorHandler, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(context.Background(), client, job, h.errorHandler, err)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

type message struct {
	recipient string
	channel   string
	to        string
	subject   string
	body      string
}

// Execute sends one message per flagged recipient. Advisors only hear about accepted
// candidates and partners about redirected ones. Every message is attempted. The job
// fails only when nothing could be sent, so a retry never repeats a delivered message;
// otherwise each failure is reported in its delivery and the status is partial.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	decision, err := models.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	messages := h.plan(decision, input)
	deliveries := make([]Delivery, 0, len(messages))
	var lastErr error
	failed := 0

	for _, m := range messages {
		var id string
		var err error
		if m.channel == ChannelSMS {
			id, err = h.sendSMS(ctx, m.to, m.body)
		} else {
			id, err = h.sendEmail(ctx, m.to, m.subject, m.body)
		}

		d := Delivery{Recipient: m.recipient, Channel: m.channel, MessageID: id, Status: DeliverySent}
		if err != nil {
			failed++
			lastErr = err
			d.Status = DeliveryFailed
			d.Error = string(apperrors.CodeOf(err))
			h.logger.Warn("notification delivery failed", map[string]interface{}{
				"decisionId": input.DecisionID,
				"recipient":  m.recipient,
				"channel":    m.channel,
				"error":      err.Error(),
			})
		}
		deliveries = append(deliveries, d)
	}

	if failed > 0 && failed == len(messages) {
		return nil, lastErr
	}

	status := StatusDisabled
	switch {
	case failed > 0:
		status = StatusPartial
	case len(deliveries) > 0:
		status = StatusSent
	}

	h.logger.Info("decision notifications processed", map[string]interface{}{
		"decisionId": input.DecisionID,
		"decision":   string(decision),
		"status":     status,
		"deliveries": len(deliveries),
		"failed":     failed,
	})

	return &Output{
		NotificationStatus: status,
		Deliveries:         deliveries,
		SentAt:             h.now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) plan(decision models.Decision, input *Input) []message {
	data := templateData(input)
	var out []message

	if input.NotifyCandidate {
		tmpl := candidateTemplates[decision]
		subject, body := renderTemplate(tmpl.subject, data), renderTemplate(tmpl.body, data)

		if h.config.EmailEnabled && input.CandidateEmail != "" {
			out = append(out, message{RecipientCandidate, ChannelEmail, input.CandidateEmail, subject, body})
		}
		if h.config.SMSEnabled && input.CandidatePhone != "" {
			out = append(out, message{RecipientCandidate, ChannelSMS, input.CandidatePhone, "", body})
		}
	}

	if input.NotifyAdvisor && decision == models.DecisionAccepted && h.config.EmailEnabled && input.AdvisorEmail != "" {
		out = append(out, message{RecipientAdvisor, ChannelEmail, input.AdvisorEmail,
			renderTemplate(advisorTemplate.subject, data), renderTemplate(advisorTemplate.body, data)})
	}

	if input.NotifyPartner && decision == models.DecisionRedirected && h.config.EmailEnabled && input.PartnerEmail != "" {
		out = append(out, message{RecipientPartner, ChannelEmail, input.PartnerEmail,
			renderTemplate(partnerTemplate.subject, data), renderTemplate(partnerTemplate.body, data)})
	}
	return out
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) (string, error) {
	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String(charset)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(ChannelEmail, err)
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) (string, error) {
	in := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SMSSenderID != "" {
		in.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SMSSenderID)},
		}
	}

	out, err := h.snsClient.Publish(ctx, in)
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(ChannelSMS, err)
	}
	return aws.ToString(out.MessageId), nil
}
