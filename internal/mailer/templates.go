package mailer

import "fmt"

func WelcomeEmail(to, toName string) Email {
	return Email{
		To:      to,
		ToName:  toName,
		Subject: "Welcome to Course Wagon",
		Text:    fmt.Sprintf("Hi %s,\n\nWelcome to Course Wagon. Create your first course and let the generator do the heavy lifting.\n", toName),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Welcome to Course Wagon. Create your first course and let the generator do the heavy lifting.</p>", toName),
	}
}

func VerificationEmail(to, toName, link string) Email {
	return Email{
		To:      to,
		ToName:  toName,
		Subject: "Verify your Course Wagon email",
		Text:    fmt.Sprintf("Hi %s,\n\nVerify your email address by opening this link:\n%s\n\nThe link expires in 24 hours.\n", toName, link),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p><a href=%q>Verify your email address</a>. The link expires in 24 hours.</p>", toName, link),
	}
}

func PasswordResetEmail(to, toName, link string) Email {
	return Email{
		To:      to,
		ToName:  toName,
		Subject: "Reset your Course Wagon password",
		Text:    fmt.Sprintf("Hi %s,\n\nReset your password by opening this link:\n%s\n\nIf you did not request a reset, ignore this message.\n", toName, link),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p><a href=%q>Reset your password</a>. If you did not request a reset, ignore this message.</p>", toName, link),
	}
}
