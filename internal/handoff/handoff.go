// Package handoff turns a finished conversation into the WhatsApp message a
// visitor sends to the sales team.
package handoff

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
)

// DefaultNumber is the sales team's WhatsApp number in wa.me form.
const DefaultNumber = "5515996901137"

const linkBase = "https://wa.me/"

var brl = message.NewPrinter(language.BrazilianPortuguese)

// Summary is what the visitor settled on.
type Summary struct {
	Company string
	Package catalog.Package
	Quote   catalog.Quote
	Answers questionnaire.Answers
}

// Text renders the message body. Asterisks are WhatsApp bold markers.
func (s Summary) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Olá Nexus Dev! Represento a empresa *%s*.\n", s.Company)

	if bullets := s.Answers.Bullets(); len(bullets) > 0 {
		b.WriteString("\n*Respostas do Formulário:*\n")
		b.WriteString(strings.Join(bullets, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n*Pacote Escolhido:* ")
	b.WriteString(s.Package.Name)
	if s.Quote.WithAddOn {
		b.WriteString(" + " + catalog.AddOnLabel)
	}
	fmt.Fprintf(&b, "\n*Investimento:* %s", FormatBRL(s.Quote.Price))
	fmt.Fprintf(&b, "\n*Manutenção:* %s/mês", FormatBRL(s.Quote.Maintenance))

	return b.String()
}

// FormatBRL formats whole reais as "R$ 1.500,00".
func FormatBRL(reais int) string {
	return "R$ " + brl.Sprint(number.Decimal(reais, number.Scale(2)))
}

// Link builds the wa.me deep link carrying text for the given number.
func Link(phone, text string) string {
	return linkBase + phone + "?text=" + encode(text)
}

// encode percent-encodes every byte outside the unreserved set. Spaces
// become %20 so the link reads the same in every WhatsApp client.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Opener hands a link to whatever surface shows it to the visitor.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, link string) error

func (f OpenerFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

// Nop is used where the caller delivers the link itself, e.g. in an HTTP response.
var Nop Opener = OpenerFunc(func(context.Context, string) error { return nil })
