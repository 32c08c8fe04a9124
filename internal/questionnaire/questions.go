// Package questionnaire implements the five-question intake that runs before
// the assistant conversation and recommends a package from the answers.
package questionnaire

import "slices"

// Question keys.
const (
	KeyHasSite   = "possui_site"
	KeyObjective = "objetivo"
	KeyIdentity  = "identidade"
	KeyDeadline  = "prazo"
	KeyPain      = "dor"
)

// Options the recommendation table looks at.
const (
	ObjectiveDirectSales   = "Vendas Diretas"
	ObjectiveAuthority     = "Autoridade e Credibilidade"
	ObjectivePortfolio     = "Portfólio de Projetos"
	ObjectiveInstitutional = "Institucional / Informativo"
	PainSlowSite           = "Site atual é lento/antigo"
)

// Question is one fixed-choice step of the intake.
type Question struct {
	ID      int      `json:"id"`
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// HasOption reports whether option is one of q's choices.
func (q Question) HasOption(option string) bool {
	return slices.Contains(q.Options, option)
}

var questions = []Question{
	{
		ID:      1,
		Key:     KeyHasSite,
		Label:   "Possui site",
		Text:    "Você já possui um site?",
		Options: []string{"Sim, quero melhorar", "Não, quero um do zero", "Tenho um, mas está desativado"},
	},
	{
		ID:      2,
		Key:     KeyObjective,
		Label:   "Objetivo",
		Text:    "Qual o objetivo principal do seu novo site?",
		Options: []string{ObjectiveDirectSales, ObjectiveAuthority, ObjectivePortfolio, ObjectiveInstitutional, "Outros"},
	},
	{
		ID:      3,
		Key:     KeyIdentity,
		Label:   "Identidade",
		Text:    "Você já tem uma identidade visual (logo, cores)?",
		Options: []string{"Sim, completa", "Apenas a logo", "Não, preciso criar tudo do zero"},
	},
	{
		ID:      4,
		Key:     KeyDeadline,
		Label:   "Prazo",
		Text:    "Qual o seu prazo para o lançamento?",
		Options: []string{"O mais rápido possível", "15 a 30 dias", "Mais de 30 dias", "Estou apenas pesquisando"},
	},
	{
		ID:      5,
		Key:     KeyPain,
		Label:   "Maior dor",
		Text:    "Qual a maior dor que você sente hoje no seu negócio digital?",
		Options: []string{"Pouca visibilidade", PainSlowSite, "Não consigo passar confiança", "Dificuldade em captar leads", "Nenhuma das anteriores"},
	},
}

// Questions returns the intake in presentation order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}
