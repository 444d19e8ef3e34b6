package utils

import (
	"fmt"
	"time"
)

func SendInviteReminderEmail(to, householdName, acceptURL string, expiresAt time.Time) error {
	subject := fmt.Sprintf("⏳ Reminder: Your Invitation to '%s' Is Waiting", householdName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Invitation Reminder</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f4f7f5;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 10px;
			box-shadow: 0 3px 12px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #c98a1b;
		}
		.header {
			background-color: #c98a1b;
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
			background-color: #c98a1b;
			color: #ffffff !important;
			text-decoration: none;
			border-radius: 6px;
			font-weight: 600;
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
			<p>Your invitation to join the household <strong>'%s'</strong> on HomeLedger is still pending. It expires on <strong>%s</strong>, so don't miss out on tracking shared expenses with your household.</p>
			<p style="text-align:center;">
				<a class="button" href="%s">Accept Invitation</a>
			</p>
		</div>
		<div class="footer">
			HomeLedger &middot; shared finances, kept simple
		</div>
	</div>
	</body>
	</html>
	`, householdName, expiresAt.Format("Jan 2, 2006 15:04 MST"), acceptURL)

	return SendEmail(to, subject, body)
}
