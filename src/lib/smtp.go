package lib

import (
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

type SendMailInput struct {
	From    string
	To      []string
	Subject string
	Body    string
}

func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 1025
	}
	client, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.NoTLS),
	)
	if err != nil {
		log.Printf("Failed to create SMTP client: %s\n", err.Error())
		return nil, err
	}
	return client, nil
}

func SendMail(input *SendMailInput) error {
	client, err := GetSMTPClient()
	if err != nil {
		return err
	}
	message := mail.NewMsg()
	if err := message.From(input.From); err != nil {
		return err
	}
	if err := message.To(input.To...); err != nil {
		return err
	}
	message.Subject(input.Subject)
	message.SetBodyString(mail.TypeTextHTML, input.Body)
	if err := client.DialAndSend(message); err != nil {
		log.Printf("Failed to deliver mail: %s\n", err.Error())
		return err
	}
	return nil
}
