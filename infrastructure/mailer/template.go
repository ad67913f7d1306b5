package mailer

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
)

const verificationSubject = "Confirm Your Registration"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Welcome to {{.AppName}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .container { background-color: #f4f4f4; border-radius: 10px; padding: 30px; text-align: center; }
    .logo { max-width: 200px; margin-bottom: 20px; }
    .btn { display: inline-block; background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <img src="{{.LogoURL}}" alt="{{.AppName}} logo" class="logo">
    <h1>Welcome, {{.Username}}!</h1>
    <p>Thank you for registering. To complete your registration, please click the button below:</p>
    <a href="{{.Link}}" class="btn">Verify Your Email</a>
    <p>If the button doesn't work, copy and paste the following link in your browser:</p>
    <p>{{.Link}}</p>
    <p>If you didn't create an account, please ignore this email.</p>
  </div>
</body>
</html>
`))

type verificationData struct {
	AppName  string
	Username string
	LogoURL  string
	Link     string
}

// VerificationLink builds {frontend}/verify-email?token=...
func VerificationLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

func renderVerificationEmail(data verificationData) (string, error) {
	var buf bytes.Buffer
	if err := verificationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
