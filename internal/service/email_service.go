package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"brightsteps/internal/progress"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends parent-facing emails via Amazon SES.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail
// produces a disabled service that logs instead of sending, so local
// setups work without AWS credentials.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWeeklyDigest mails a parent a summary of a kid's week: totals,
// streak, and unlocked achievements.
func (s *EmailService) SendWeeklyDigest(ctx context.Context, toEmail, kidName string,
	totals progress.Totals, streak progress.StreakState, unlocked []string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): weekly digest to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s's week at BrightSteps", kidName)

	achievementLine := "No achievements unlocked yet - every journey starts small!"
	if len(unlocked) > 0 {
		achievementLine = fmt.Sprintf("Achievements unlocked so far: %s", strings.Join(unlocked, ", "))
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #6bbf8a; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.stat { font-size: 18px; margin: 8px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s's Progress</h1>
		</div>
		<div class="content">
			<p class="stat">Tasks completed: <strong>%d</strong></p>
			<p class="stat">Total attempts: <strong>%d</strong></p>
			<p class="stat">Current streak: <strong>%d day(s)</strong></p>
			<p class="stat">Longest streak: <strong>%d day(s)</strong></p>
			<p>%s</p>
		</div>
		<div class="footer">
			<p>This is an automated email from BrightSteps. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, kidName, totals.Completed, totals.Attempts, streak.CurrentStreak, streak.LongestStreak, achievementLine)

	textBody := fmt.Sprintf(`%s's progress this week:

Tasks completed: %d
Total attempts: %d
Current streak: %d day(s)
Longest streak: %d day(s)

%s

---
This is an automated email from BrightSteps. Please do not reply.
`, kidName, totals.Completed, totals.Attempts, streak.CurrentStreak, streak.LongestStreak, achievementLine)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendStreakReminder nudges a parent when a kid's streak would lapse
// today without a completed task.
func (s *EmailService) SendStreakReminder(ctx context.Context, toEmail, kidName string, currentStreak int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): streak reminder to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s's %d-day streak needs one more task today", kidName, currentStreak)

	textBody := fmt.Sprintf(`Hi,

%s has a %d-day streak going and hasn't completed a task yet today.
One short activity keeps it alive!

---
This is an automated email from BrightSteps. Please do not reply.
`, kidName, currentStreak)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hi,</p>
	<p><strong>%s</strong> has a <strong>%d-day</strong> streak going and hasn't completed a task yet today.</p>
	<p>One short activity keeps it alive!</p>
	<p style="font-size: 12px; color: #666;">This is an automated email from BrightSteps. Please do not reply.</p>
</body>
</html>
`, kidName, currentStreak)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
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

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
