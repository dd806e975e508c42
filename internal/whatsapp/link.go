// Package whatsapp builds pre-filled wa.me deep links. Opening the link is
// left to the client; nothing here confirms delivery.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/money"
)

// Link returns https://wa.me/<number>?text=<message>. Non-digits are
// stripped from number; the message is percent-encoded with %20 for spaces.
func Link(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, text)
}

// OrderMessage is the follow-up a customer sends after placing an order.
func OrderMessage(order domain.OrderRecord) string {
	items := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, fmt.Sprintf("%s (x%d)", it.Name, it.Quantity))
	}
	return fmt.Sprintf("Hello! I placed order #%s for %s. Items: %s. Total: %s. Please confirm delivery details.",
		order.ID, order.CustomerName, strings.Join(items, ", "), money.FormatINR(order.Total))
}

func PackageEnquiry(packageName string) string {
	return fmt.Sprintf("Hello! I'm interested in your %q interior design package. Please provide more details.", packageName)
}

func ServiceEnquiry(serviceName string) string {
	return fmt.Sprintf("Hello! I'm interested in your %q service. Please provide more details and pricing.", serviceName)
}
