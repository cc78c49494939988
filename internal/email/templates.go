package email

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem is one purchased line as rendered in the confirmation mail.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ConfirmationOrder carries everything the confirmation template needs.
type ConfirmationOrder struct {
	OrderID       string
	CustomerName  string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	PaymentMethod string
}

// BuildOrderConfirmationBody renders the HTML body for the confirmation mail.
func BuildOrderConfirmationBody(order ConfirmationOrder) string {
	var itemsHTML strings.Builder
	for _, item := range order.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
			</tr>`,
			name,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			lineTotal.StringFixed(2),
		))
	}

	greeting := "Thank you for your order."
	if order.CustomerName != "" {
		greeting = fmt.Sprintf("Hi %s, thank you for your order.", order.CustomerName)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Your order is confirmed</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">%s</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #667eea; padding-bottom: 10px;">Order summary</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Unit price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total (%s)</span>
			<span style="font-size: 24px; font-weight: bold; color: #667eea; margin-left: 10px;">$%s</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. If anything looks wrong, please contact support.
		</p>
	</div>
</body>
</html>`, greeting, order.OrderID, itemsHTML.String(), order.PaymentMethod, order.TotalAmount.StringFixed(2))
}
