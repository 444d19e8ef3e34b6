package utils

import (
	"fmt"
)

func SendShareUpdateEmail(to, updatedBy, expenseDescription, householdName, amount, percentage string) error {
	subject := fmt.Sprintf("📒 Your Share of '%s' Was Updated", expenseDescription)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Share Updated</title>
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
		.amount {
			font-size: 22px;
			font-weight: 700;
			color: #1f6f4a;
			text-align: center;
			margin: 14px 0;
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
			<p><strong>%s</strong> updated the shared expense <strong>'%s'</strong> in household <strong>'%s'</strong>. Your share is now:</p>
			<div class="amount">%s (%s%%)</div>
			<p>Open HomeLedger to see the full breakdown.</p>
		</div>
		<div class="footer">
			HomeLedger &middot; shared finances, kept simple
		</div>
	</div>
	</body>
	</html>
	`, updatedBy, expenseDescription, householdName, amount, percentage)

	return SendEmail(to, subject, body)
}
