// Package notify builds the WhatsApp handoff for a finalized order: a plain
// Arabic order summary and the wa.me deep link that carries it to the store's
// contact number.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dokkan/bookstore/internal/models"
)

// BuildMessage renders the order summary the store operator receives. Line
// order mirrors the message customers already know: lead time note, recipient
// and address, phones, book list, total, confirmation CTA.
func BuildMessage(order *models.Order, items []models.OrderItem) string {
	lines := []string{
		"الاوردر بياخد من ٢ ل 5 أيام عمل إن شاء الله غير شامل الجمعة والاجازات الرسمية 👍🏻",
		"",
		fmt.Sprintf("🫠 اسم المستلم: %s", order.RecipientName),
		fmt.Sprintf("🏠 العنوان: %s - %s - %s", order.Province, order.CityOrDistrict, order.StreetInfo),
	}
	if order.Landmark != "" {
		lines = append(lines, fmt.Sprintf("📍 العلامة المميزة: %s", order.Landmark))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("📞 رقم الموبايل: %s", order.Phone),
	)
	if order.PhoneAlternate != "" {
		lines = append(lines, fmt.Sprintf("📱 رقم بديل: %s", order.PhoneAlternate))
	}
	lines = append(lines, "", "📚 الكتب المطلوبة:")
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("• %s × %d", it.Title, it.Quantity))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("💸 إجمالي السعر: %.2f %s", order.Total, order.Currency),
		"",
		`برجاء الضغط على "إرسال" لتأكيد الطلب 💚`,
	)
	return strings.Join(lines, "\n")
}

// BuildLink URL-encodes the message into a wa.me deep link addressed to the
// store phone.
func BuildLink(storePhone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", storePhone, url.QueryEscape(message))
}
