package chat

import "fmt"

// Assistant lines. Asterisks render as bold in the chat panel and WhatsApp.
const (
	msgGreeting          = "Olá! Sou o assistente de negócios da Nexus Dev. 🚀"
	msgAnswersReceived   = "Recebi suas respostas do formulário! Elas nos ajudam muito a entender seu projeto:"
	msgAskNameProposal   = "Para continuarmos com sua proposta personalizada, qual o nome da sua empresa?"
	msgInterestAddOn     = "Vi que sua empresa se interessou pelo Módulo de Agendamento Automático!"
	msgAskNameForDetails = "Antes de vermos os detalhes e valores, qual o nome da sua empresa?"
	msgAskNameColdStart  = "Qual o nome da sua empresa para começarmos o atendimento corporativo?"
	msgDetailsIntro      = "Aqui estão os detalhes técnicos e o investimento necessário para transformarmos sua presença digital:"
	msgPickBaseForAddOn  = "A qual desses pacotes base você gostaria de integrar o agendamento?"
	msgPreparingDetails  = "Estamos preparando os detalhes exclusivos para você..."
)

func msgInterest(pkg string) string {
	return fmt.Sprintf("Vi que sua empresa se interessou pelo %s!", pkg)
}

func msgRecommendation(pkg string) string {
	return fmt.Sprintf("💡 Com base no seu perfil, acreditamos que o **%s** seja a melhor escolha para o seu momento atual!", pkg)
}

func msgExcellentChoice(company string) string {
	return fmt.Sprintf("Excelente escolha, %s! Nossos especialistas analisaram seu perfil e temos a solução ideal.", company)
}

func msgNiceToMeet(company string) string {
	return fmt.Sprintf("Prazer em conhecer a %s! Com base no que você busca, qual dessas soluções digitais parece mais interessante para vocês hoje?", company)
}

func msgVisitorInterest(pkg string) string {
	return fmt.Sprintf("Me interessei pelo %s", pkg)
}

func msgGreatChoice(pkg string) string {
	return fmt.Sprintf("Ótima escolha! O %s é um dos nossos modelos mais solicitados pela sua eficiência.", pkg)
}
