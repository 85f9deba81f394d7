package mail

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
)

// OrderMailData is everything the order mail texts are built from. Items and
// totals come out of payment metadata or the checkout request, never out of
// the database.
type OrderMailData struct {
	OrderNumber      string
	PaymentMethod    domain.PaymentMethod
	Customer         domain.Customer
	Items            []domain.CartLine
	Total            decimal.Decimal
	Currency         string
	CouponCode       *string
	PaymentReference string
}

// FormatEUR renders a money value the German way: "18,00 €".
func FormatEUR(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " €"
}

func formatAmount(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " " + currency
}

func itemsText(items []domain.CartLine) string {
	if len(items) == 0 {
		return "Keine Artikeldetails übermittelt."
	}
	lines := make([]string, 0, len(items))
	for _, i := range items {
		lines = append(lines, fmt.Sprintf("- %s × %d = %s", i.Name, i.Quantity, FormatEUR(i.LineTotal())))
	}
	return strings.Join(lines, "\n")
}

func couponLine(code *string) string {
	if code == nil || *code == "" {
		return ""
	}
	return fmt.Sprintf("Eingesetzter Gutschein: %s\n", strings.ToUpper(*code))
}

// CustomerVorkasseText builds the bank transfer instruction mail.
func CustomerVorkasseText(d OrderMailData, bank config.BankConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s %s\n\n", d.Customer.FirstName, d.Customer.LastName)
	b.WriteString("vielen Dank für deine Bestellung im 4aCe Shop.\n\n")
	fmt.Fprintf(&b, "Bestellnummer: %s\n", d.OrderNumber)
	fmt.Fprintf(&b, "Zahlungsart: %s\n", d.PaymentMethod.Label())
	fmt.Fprintf(&b, "Betrag: %s\n", formatAmount(d.Total, d.Currency))
	b.WriteString(couponLine(d.CouponCode))
	fmt.Fprintf(&b, "\nBestellte Artikel:\n%s\n\n", itemsText(d.Items))
	b.WriteString("Bitte überweise den Gesamtbetrag innerhalb von 7 Tagen auf folgendes Konto:\n\n")
	fmt.Fprintf(&b, "Empfänger: %s\n", bank.Recipient)
	fmt.Fprintf(&b, "Bank: %s\n", bank.BankName)
	fmt.Fprintf(&b, "IBAN: %s\n", bank.IBAN)
	fmt.Fprintf(&b, "BIC: %s\n\n", bank.BIC)
	fmt.Fprintf(&b, "Verwendungszweck: %s\n\n", d.OrderNumber)
	b.WriteString("Sobald deine Zahlung bei uns eingegangen ist, beginnen wir mit der Bearbeitung deiner Bestellung.\n\n")
	b.WriteString("Viele Grüße\ndein 4aCe Team")
	return b.String()
}

// CustomerPaidText builds the confirmation mail for a confirmed payment
// (Mollie or PayPal).
func CustomerPaidText(d OrderMailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s %s\n\n", d.Customer.FirstName, d.Customer.LastName)
	b.WriteString("vielen Dank für deine Bestellung im 4aCe Shop.\n\n")
	fmt.Fprintf(&b, "Bestellnummer: %s\n", d.OrderNumber)
	fmt.Fprintf(&b, "Zahlungsart: %s\n", d.PaymentMethod.Label())
	fmt.Fprintf(&b, "Betrag: %s\n", formatAmount(d.Total, d.Currency))
	b.WriteString(couponLine(d.CouponCode))
	fmt.Fprintf(&b, "\nBestellte Artikel:\n%s\n\n", itemsText(d.Items))
	b.WriteString("Wir melden uns, sobald deine Bestellung in den Versand geht.\n\n")
	b.WriteString("Viele Grüße\ndein 4aCe Team")
	return b.String()
}

// InternalOrderText builds the notification for the shop's own inbox.
func InternalOrderText(d OrderMailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Neue %s-Bestellung im 4aCe Shop.\n\n", d.PaymentMethod)
	fmt.Fprintf(&b, "Bestellnummer: %s\n", d.OrderNumber)
	if d.PaymentReference != "" {
		fmt.Fprintf(&b, "Payment-Referenz: %s\n", d.PaymentReference)
	}
	fmt.Fprintf(&b, "Betrag: %s\n", formatAmount(d.Total, d.Currency))
	if d.CouponCode != nil && *d.CouponCode != "" {
		fmt.Fprintf(&b, "Gutschein: %s\n", strings.ToUpper(*d.CouponCode))
	}
	fmt.Fprintf(&b, "\nKunde: %s %s\n", d.Customer.FirstName, d.Customer.LastName)
	fmt.Fprintf(&b, "E-Mail: %s\n", orDash(d.Customer.Email))
	fmt.Fprintf(&b, "Adresse: %s, %s %s, %s\n\n", orDash(d.Customer.Street), d.Customer.Zip, d.Customer.City, d.Customer.Country)
	fmt.Fprintf(&b, "Artikel:\n%s\n", itemsText(d.Items))
	return b.String()
}

// CaptureFailureText builds the operations alert for a failed capture: by
// the time it fires the customer may already have approved the payment at
// the processor, so someone has to follow up by hand.
func CaptureFailureText(externalOrderID, status, detail string) string {
	var b strings.Builder
	b.WriteString("PayPal-Capture fehlgeschlagen.\n\n")
	fmt.Fprintf(&b, "OrderID: %s\n\n", externalOrderID)
	fmt.Fprintf(&b, "Status: %s\n\n", orDash(status))
	fmt.Fprintf(&b, "Payload:\n%s\n", orDash(detail))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
