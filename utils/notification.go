package utils

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// kinds that also go out by email, on top of the persisted notification
var mailedKinds = map[string]bool{
	models.NotifyCertificateIssued: true,
	models.NotifyPaymentApproved:   true,
	models.NotifyPaymentRejected:   true,
}

// NotificationService persists notifications and mirrors the important ones
// to email. Implements services.Notifier; everything here is fire-and-forget
// from the engine's point of view.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Notify implements services.Notifier
func (n *NotificationService) Notify(userID uint, kind, title, body, link string) {
	notification := models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
		Link:   link,
	}
	if err := database.Database.Db.Create(&notification).Error; err != nil {
		log.Printf("Failed to persist notification for user %d: %v", userID, err)
		return
	}

	if !mailedKinds[kind] || config.AppConfig.SendGridAPIKey == "" {
		return
	}

	var user models.User
	if err := database.Database.Db.Select("name, email").
		Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil || user.Email == "" {
		return
	}

	go sendNotificationEmail(user.Name, user.Email, title, body)
}

func sendNotificationEmail(name, email, subject, body string) {
	from := sgmail.NewEmail("LMS", config.AppConfig.EmailSender)
	to := sgmail.NewEmail(name, email)
	message := sgmail.NewSingleEmail(from, subject, to, body, "<p>"+body+"</p>")

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Failed to send notification email to %s: %v", email, err)
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", email, resp.StatusCode, resp.Body)
	}
}
