package capture

import (
	"strings"

	"github.com/atenabot/atena/internal/taxonomy"
)

// buildExtractionPrompt constructs the fixed instruction prompt for the
// structured extractor: the output schema plus the category and
// payment-method taxonomies the model must choose from.
func buildExtractionPrompt() string {
	var b strings.Builder

	b.WriteString("Você é um extrator de despesas. Analise a mensagem do usuário e extraia os dados da despesa.\n\n")
	b.WriteString("Responda APENAS com JSON puro (sem comentários, sem texto extra, sem Markdown).\n")
	b.WriteString("Não use ```json nem cercas de código. A resposta deve começar com \"{\" e terminar com \"}\".\n\n")

	b.WriteString("O objeto JSON deve ter exatamente estes campos:\n")
	b.WriteString("- \"valor\": number (valor total da despesa, ex: 45.90)\n")
	b.WriteString("- \"descricao\": string (descrição curta e normalizada da despesa)\n")
	b.WriteString("- \"categoria\": string (uma das categorias abaixo)\n")
	b.WriteString("- \"forma_pagamento\": string (uma das formas de pagamento abaixo)\n")
	b.WriteString("- \"parcelas\": integer (número de parcelas; 1 se não for parcelado)\n")
	b.WriteString("- \"eh_gasto\": boolean (true se a mensagem registra uma despesa)\n\n")

	b.WriteString("Categorias permitidas (use EXATAMENTE uma delas):\n")
	for _, cat := range taxonomy.Categories {
		b.WriteString("  - " + cat + "\n")
	}
	b.WriteString("\nFormas de pagamento permitidas:\n")
	for _, pm := range taxonomy.PaymentMethods {
		b.WriteString("  - " + pm + "\n")
	}

	b.WriteString("\nRegras:\n")
	b.WriteString("1. Se não tiver certeza da categoria, use \"" + taxonomy.CategoryOther + "\".\n")
	b.WriteString("2. Valores podem usar vírgula como separador decimal (\"45,90\" = 45.90).\n")
	b.WriteString("3. \"3x de 100\" significa 3 parcelas com valor total 300.\n")
	b.WriteString("4. Se a mensagem não registra uma despesa, use \"eh_gasto\": false e \"valor\": 0.\n")

	return b.String()
}
