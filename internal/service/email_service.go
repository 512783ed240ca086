package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"sentencecraft/internal/models"
)

// EmailService sends guardian notifications via Amazon SES.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail yields
// a disabled service that skips all sends.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendSessionSummaryEmail tells a guardian how a completed practice
// session went.
func (s *EmailService) SendSessionSummaryEmail(ctx context.Context, toEmail, pupilName string, lessonNumber int, summary models.SessionSummary) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): session summary to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s finished a writing practice session", pupilName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.stat { font-size: 24px; font-weight: bold; color: #4a90e2; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Practice Session Complete!</h1>
		</div>
		<div class="content">
			<p>%s just finished lesson %d.</p>
			<p>Sentences completed: <span class="stat">%d of %d</span></p>
			<p>Accuracy: <span class="stat">%d%%</span></p>
			<p>Visit <a href="%s">SentenceCraft</a> to see the full progress picture.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from SentenceCraft. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, pupilName, lessonNumber, summary.FormulasCompleted, summary.FormulasTotal, summary.AccuracyPercentage, s.appBaseURL)

	textBody := fmt.Sprintf(`%s just finished lesson %d.

Sentences completed: %d of %d
Accuracy: %d%%

See the full progress picture: %s

---
This is an automated email from SentenceCraft. Please do not reply.
`, pupilName, lessonNumber, summary.FormulasCompleted, summary.FormulasTotal, summary.AccuracyPercentage, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES.
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
