package common

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"brs/src/lib"
	"brs/src/lib/aws"
	"brs/src/models"
)

// DispatchBookingAlert notifies the operator about a new booking.
// Telegram is the primary channel; on failure an SMS goes out through
// SNS, and if that also fails the alert lands on the dead-letter queue
// so nothing is silently lost.
func DispatchBookingAlert(agreement *models.Agreement, tourist *models.Tourist) {
	message := lib.FormatBookingMessage(
		agreement.AgreementNo,
		tourist.FirstName+" "+tourist.LastName,
		tourist.PhoneNumber,
		agreement.StartDate.Format("2006-01-02"),
		agreement.EndDate.Format("2006-01-02"),
		agreement.TotalAmount,
	)
	if err := lib.GetTelegramSender().SendBookingAlert(message); err == nil {
		return
	} else {
		log.Printf("Telegram alert failed for %s: %s\n", agreement.AgreementNo, err.Error())
	}

	smsText := "New booking " + agreement.AgreementNo + " from " + tourist.FirstName + " " + tourist.LastName
	if err := aws.SNSPublishSMS(os.Getenv("ALERT_PHONE_NUMBER"), smsText); err == nil {
		return
	} else {
		log.Printf("SMS fallback failed for %s: %s\n", agreement.AgreementNo, err.Error())
	}

	deadLetter, err := json.Marshal(map[string]any{
		"agreement_no": agreement.AgreementNo,
		"tourist":      tourist.FirstName + " " + tourist.LastName,
		"phone":        tourist.PhoneNumber,
		"total_amount": agreement.TotalAmount,
		"failed_at":    time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	queue := os.Getenv("NOTIFICATIONS_DLQ")
	if queue == "" {
		queue = "booking-alerts-dlq"
	}
	if err := aws.SQSProduceMessage(queue, string(deadLetter)); err != nil {
		log.Printf("Dead-letter enqueue failed for %s: %s\n", agreement.AgreementNo, err.Error())
	}
}
