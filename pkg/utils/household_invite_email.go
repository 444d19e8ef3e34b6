package utils

import (
	"fmt"
	"time"
)

func SendHouseholdInviteEmail(to, householdName, invitedBy, acceptURL string, expiresAt time.Time) error {
	subject := fmt.Sprintf("🏠 You're Invited to Join '%s' on HomeLedger!", householdName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Household Invitation</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f4f7f5;
			margin: 0;
			padding: 0;
			color: #333333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 10px;
			box-shadow: 0 3px 12px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #1f6f4a;
		}
		.header {
			background-color: #1f6f4a;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
			font-size: 14px;
			line-height: 1.6;
		}
		.button {
			display: inline-block;
			margin: 16px 0;
			padding: 10px 22px;
			background-color: #1f6f4a;
			color: #ffffff !important;
			text-decoration: none;
			border-radius: 6px;
			font-weight: 600;
		}
		.expiry {
			font-size: 12px;
			color: #777777;
		}
		.footer {
			background-color: #f4f7f5;
			text-align: center;
			font-size: 12px;
			color: #888888;
			padding: 12px;
		}
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header">
			<h1>HomeLedger</h1>
		</div>
		<div class="content">
			<p>Hi there,</p>
			<p><strong>%s</strong> has invited you to join the household <strong>'%s'</strong> on HomeLedger, so you can track and split shared expenses together.</p>
			<p style="text-align:center;">
				<a class="button" href="%s">Accept Invitation</a>
			</p>
			<p class="expiry">This invitation expires on %s. If you weren't expecting it, you can safely ignore this email.</p>
		</div>
		<div class="footer">
			HomeLedger &middot; shared finances, kept simple
		</div>
	</div>
	</body>
	</html>
	`, invitedBy, householdName, acceptURL, expiresAt.Format("Jan 2, 2006 15:04 MST"))

	return SendEmail(to, subject, body)
}
