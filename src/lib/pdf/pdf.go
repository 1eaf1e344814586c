package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"brs/src/lib/aws"
)

// AgreementData carries everything the rendered agreement document needs.
type AgreementData struct {
	AgreementNo  string
	TouristName  string
	PassportNo   string
	Country      string
	Phone        string
	Email        string
	BikeModel    string
	PlateNumber  string
	StartDate    string
	EndDate      string
	DailyRate    float64
	TotalAmount  float64
	Deposit      float64
	OutsideArea  bool
	SignatureURL string
	SignedAt     string
	GeneratedAt  string
}

var agreementTemplate = template.Must(template.New("agreement").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 13px; color: #222; margin: 40px; }
h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
td, th { border: 1px solid #999; padding: 6px 10px; text-align: left; }
.signature img { max-height: 90px; }
.footer { margin-top: 40px; font-size: 11px; color: #666; }
</style>
</head>
<body>
<h1>Bike Rental Agreement {{.AgreementNo}}</h1>
<table>
<tr><th>Tourist</th><td>{{.TouristName}}</td><th>Passport</th><td>{{.PassportNo}}</td></tr>
<tr><th>Country</th><td>{{.Country}}</td><th>Phone</th><td>{{.Phone}}</td></tr>
<tr><th>Email</th><td colspan="3">{{.Email}}</td></tr>
</table>
<table>
<tr><th>Bike</th><td>{{.BikeModel}}</td><th>Plate</th><td>{{.PlateNumber}}</td></tr>
<tr><th>From</th><td>{{.StartDate}}</td><th>To</th><td>{{.EndDate}}</td></tr>
<tr><th>Daily rate</th><td>LKR {{printf "%.2f" .DailyRate}}</td><th>Deposit</th><td>LKR {{printf "%.2f" .Deposit}}</td></tr>
<tr><th>Total</th><td colspan="3"><b>LKR {{printf "%.2f" .TotalAmount}}</b>{{if .OutsideArea}} (includes outside-area surcharge){{end}}</td></tr>
</table>
{{if .SignatureURL}}
<div class="signature">
<p>Signed by tourist{{if .SignedAt}} on {{.SignedAt}}{{end}}:</p>
<img src="{{.SignatureURL}}" alt="signature">
</div>
{{end}}
<p class="footer">Generated {{.GeneratedAt}}</p>
</body>
</html>`))

func GenerateHTML(data *AgreementData) (string, error) {
	var buf bytes.Buffer
	if err := agreementTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render produces A4 PDF bytes from the agreement HTML using headless Chrome.
func Render(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
	defer cancelTimeout()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// UploadPDF stores the rendered document and returns its public URL.
func UploadPDF(agreementNo string, body []byte) (*string, error) {
	key := fmt.Sprintf("agreements/%s.pdf", agreementNo)
	return aws.S3UploadBlob(key, body, "application/pdf")
}
