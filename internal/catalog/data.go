package catalog

// Names of the base tiers, used by the questionnaire recommendation table.
const (
	Basic        = "Pacote Básico"
	Professional = "Pacote Profissional"
	Complete     = "Pacote Completo"
	React        = "Pacote React"
	Extra        = "Extra"
)

var defaultPackages = []Package{
	{
		ID:          "basico",
		Name:        Basic,
		Title:       "🔹 Pacote Básico",
		Description: "Ideal para quem precisa marcar presença online de forma simples e profissional.",
		Bullets:     []string{"Site de 1 página", "Layout moderno", "Mobile & Desktop Friendly", "Carregamento rápido", "Visual profissional"},
		Tech:        "HTML e CSS",
		Price:       500,
		Maintenance: 100,
		Note:        "Ideal para negócios locais, autônomos e quem está começando.",
	},
	{
		ID:          "profissional",
		Name:        Professional,
		Title:       "🔹 Pacote Profissional",
		Description: "Perfeito para quem quer um site que realmente gere resultados.",
		Bullets:     []string{"Design estratégico focado em conversão", "Totalmente responsivo", "Funcionalidades em JavaScript", "Experiência moderna"},
		Tech:        "HTML, CSS e JavaScript",
		Price:       900,
		Maintenance: 200,
		Note:        "Ideal para quem quer captar clientes e passar mais autoridade.",
		Popular:     true,
	},
	{
		ID:          "completo",
		Name:        Complete,
		Title:       "🔹 Pacote Completo",
		Description: "Para negócios que querem um site profissional e escalável.",
		Bullets:     []string{"Até 5 páginas", "Animações avançadas JS", "Estrutura organizada", "Design elaborado", "Experiência rica"},
		Tech:        "HTML, CSS e JavaScript",
		Price:       1500,
		Maintenance: 300,
		Note:        "Ideal para empresas que querem crescer no digital.",
	},
	{
		ID:            "react",
		Name:          React,
		Title:         "🔹 Pacote Avançado – React",
		Description:   "Solução premium para negócios que querem escalar e automatizar.",
		Bullets:       []string{"Site desenvolvido em React", "Estrutura escalável", "Layout de alto nível", "Alta performance", "Chat de agendamento incluso"},
		Tech:          "React Engine",
		Price:         3500,
		Maintenance:   500,
		Note:          "Ideal para empresas que pensam grande e querem tecnologia de ponta.",
		IncludesAddOn: true,
	},
}

var defaultAddOn = Package{
	ID:          "agendamento",
	Name:        Extra,
	Title:       "➕ Extra – Sistema de Agendamento",
	Description: "Chat inteligente com coleta de dados e agendamento automático via WhatsApp.",
	Bullets:     []string{"Chat inteligente", "Sincronização com WhatsApp", "Coleta automática de dados"},
	Tech:        "Smart Chat",
	Price:       500,
	Maintenance: 200,
	AddOn:       true,
}
