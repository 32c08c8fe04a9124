package bot

import (
	"fmt"
	"strings"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/handoff"
)

const (
	msgGoodbye      = "Atendimento encerrado. Quando quiser retomar, é só mandar uma mensagem! 👋"
	msgAskNameAgain = "Por favor, me diga o nome da sua empresa para continuarmos."
	msgPickPackage  = "Toque no botão abaixo para ver nossos pacotes."
	msgHandoff      = "Tudo pronto! Toque no botão para enviar seu resumo direto para a equipe da Nexus Dev."

	labelPackages = "Ver pacotes"
	labelHandoff  = "Enviar resumo"
)

// whatsappMarkup converts the chat panel's **bold** into WhatsApp's *bold*.
func whatsappMarkup(s string) string {
	return strings.ReplaceAll(s, "**", "*")
}

func detailsText(d chat.Details) string {
	p := d.Package
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n%s\n\n", p.Title, p.Description)
	for _, bullet := range p.Bullets {
		b.WriteString("• " + bullet + "\n")
	}
	fmt.Fprintf(&b, "Tecnologia: %s\n", p.Tech)

	if d.AddOnActive {
		fmt.Fprintf(&b, "\n➕ %s incluído\n", catalog.AddOnLabel)
	} else if !d.AddOnOffered {
		b.WriteString("\n✅ Chat de agendamento já incluso\n")
	}

	fmt.Fprintf(&b, "\n*Investimento:* %s", handoff.FormatBRL(d.Quote.Price))
	fmt.Fprintf(&b, "\n*Manutenção:* %s/mês", handoff.FormatBRL(d.Quote.Maintenance))
	if p.Note != "" {
		fmt.Fprintf(&b, "\n\n_%s_", p.Note)
	}
	return b.String()
}
