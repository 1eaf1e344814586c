package mailer

import (
	"fmt"
	"os"

	"brs/src/lib"
	"brs/src/lib/aws"
)

func guestLinkBody(touristName string, link string, agreementNo string) string {
	return fmt.Sprintf(`
	<p>Hello %s,</p>
	<p>Your rental agreement <b>%s</b> is ready for signing.</p>
	<p>Open the link below to review and sign:</p>
	<p><a href="%s">%s</a></p>
	<p>The link expires in 7 days and can be used once.</p>
	`, touristName, agreementNo, link, link)
}

// SendGuestLinkEmail delivers the signing link to the tourist. Local
// environments go through the SMTP sink, everything else through SES.
func SendGuestLinkEmail(touristName string, email string, token string, agreementNo string) error {
	from := os.Getenv("MAIL_FROM")
	link := fmt.Sprintf("%s/sign/%s", os.Getenv("FRONTEND_URL"), token)
	subject := fmt.Sprintf("Sign your rental agreement %s", agreementNo)
	body := guestLinkBody(touristName, link, agreementNo)

	if os.Getenv("API_ENV") == "local" {
		return lib.SendMail(&lib.SendMailInput{
			From:    from,
			To:      []string{email},
			Subject: subject,
			Body:    body,
		})
	}
	return aws.SESSendMessage(from, []string{email}, subject, body)
}
