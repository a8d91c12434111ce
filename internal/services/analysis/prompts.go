package analysis

import (
	"fmt"
	"strings"
)

// CoachInstruction is the system instruction for the narrative analysis
const CoachInstruction = "Você é um coach de alta performance, direto, pragmático e 'brutalmente carinhoso'. " +
	"Seu foco é quebrar a estagnação com planos de ação reais, não frases motivacionais vazias. " +
	"O usuário deve terminar de ler sentindo que tem um manual de guerra nas mãos."

// NarrativeTemperature is the sampling temperature for the narrative analysis
const NarrativeTemperature = 0.7

func scoreLines(categories []string, scores map[string]int) string {
	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "%s: %d/10\n", c, scores[c])
	}
	return b.String()
}

// BuildNarrativePrompt renders the prompt for the narrative analysis. It is
// also what users copy to paste into another assistant.
func BuildNarrativePrompt(categories []string, scores map[string]int, notes string) string {
	if notes == "" {
		notes = "Sem notas adicionais."
	}
	return "Analisa minha roda da vida atual com muita sinceridade e brutalidade carinhosa. Aqui estão minhas notas de hoje:\n\n" +
		scoreLines(categories, scores) +
		"\n\nNotas do momento: " + notes +
		"\n\nMe diz:\n" +
		"- Qual o maior desequilíbrio atual\n" +
		"- As 1-2 áreas que estão sabotando tudo\n" +
		"- Plano de 30 dias com no máximo 3 ações concretas e mínimas\n" +
		"- Uma frase dura se eu estiver me sabotando"
}

// BuildSmartGoalsPrompt renders the JSON-mode prompt asking for one goal per area
func BuildSmartGoalsPrompt(categories []string, scores map[string]int, notes string) string {
	if notes == "" {
		notes = "Nenhuma nota fornecida."
	}
	return `Atue como um coach especialista em desenvolvimento pessoal com estilo "Fala na Lata".

Sua missão: Gerar metas SMART para TODAS as áreas da Roda da Vida listadas abaixo.

Dados do Usuário:
` + strings.TrimSuffix(scoreLines(categories, scores), "\n") + `

Notas do usuário: ` + notes + `

INSTRUÇÕES ESTRITAS:
1. Tom: Direto, firme, um pouco provocativo. Tire o usuário do piloto automático.
2. Objetivo da Meta: Mover a nota de X para X+1 em 30 dias (ex: 5/10 para 6/10). Nada de metas heróicas, apenas micro-hábitos impossíveis de ignorar.
3. Raciocínio (Mental): Use a estrutura S.M.A.R.T (Específico, Mensurável, Alcançável, Relevante, Temporal).
4. Saída: Apenas a frase final resumida, curta e objetiva.

Exemplos de Estilo:
- "Você está no 5/10 porque não se mexe. Caminhe 10 minutos todo dia sem desculpas."
- "Relação morre sem atenção. Mande uma mensagem genuína toda terça-feira."

SAÍDA OBRIGATÓRIA (JSON ARRAY):
[
  { "area": "Nome da Área", "goal": "A meta resumida em uma frase objetiva" },
  ...
]`
}
