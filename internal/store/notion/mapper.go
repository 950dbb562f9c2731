package notion

import (
	"time"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/store"
)

// Property names of the shared Notion database. Profile pages fill the
// income columns, transaction pages fill the expense columns; both carry the
// user id.
const (
	propOwnerName      = "Nome do Usuário"
	propOwnerID        = "Telegram User ID"
	propMonthlyIncome  = "Renda Mensal"
	propFixedExpenses  = "Gastos Fixos"
	propVariableBudget = "Gastos Variáveis"
	propSavingsGoal    = "Meta de Poupança"
	propDate           = "Data do Gasto"
	propDescription    = "Descrição"
	propAmount         = "Valor"
	propPaymentMethod  = "Tipo de Pagamento"
	propCategory       = "Categoria"
)

// ProfileToProperties converts a profile to Notion page properties.
func ProfileToProperties(p *store.Profile) notionapi.Properties {
	return notionapi.Properties{
		propOwnerName:      titleProperty(p.Name),
		propOwnerID:        numberProperty(float64(p.OwnerID)),
		propMonthlyIncome:  numberProperty(decimalToFloat(p.MonthlyIncome)),
		propFixedExpenses:  numberProperty(decimalToFloat(p.FixedExpenses)),
		propVariableBudget: numberProperty(decimalToFloat(p.VariableBudget)),
		propSavingsGoal:    numberProperty(decimalToFloat(p.SavingsGoal)),
	}
}

// TransactionToProperties converts a transaction to Notion page properties.
func TransactionToProperties(tx *store.Transaction) notionapi.Properties {
	date := notionapi.Date(tx.Date)
	return notionapi.Properties{
		propOwnerName: titleProperty(tx.OwnerName),
		propOwnerID:   numberProperty(float64(tx.OwnerID)),
		propDate: notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &date},
		},
		propDescription: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: tx.Description},
				},
			},
		},
		propAmount: numberProperty(decimalToFloat(tx.Amount)),
		propPaymentMethod: notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.PaymentMethod},
		},
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Category},
		},
	}
}

// ProfileFromPage decodes a profile from a queried Notion page.
func ProfileFromPage(page *notionapi.Page) *store.Profile {
	props := page.Properties
	return &store.Profile{
		OwnerID:        int64(numberValue(props, propOwnerID)),
		Name:           titleValue(props, propOwnerName),
		MonthlyIncome:  decimal.NewFromFloat(numberValue(props, propMonthlyIncome)),
		FixedExpenses:  decimal.NewFromFloat(numberValue(props, propFixedExpenses)),
		VariableBudget: decimal.NewFromFloat(numberValue(props, propVariableBudget)),
		SavingsGoal:    decimal.NewFromFloat(numberValue(props, propSavingsGoal)),
	}
}

// TransactionFromPage decodes a transaction from a queried Notion page.
func TransactionFromPage(page *notionapi.Page) store.Transaction {
	props := page.Properties
	return store.Transaction{
		OwnerID:       int64(numberValue(props, propOwnerID)),
		OwnerName:     titleValue(props, propOwnerName),
		Date:          dateValue(props, propDate),
		Description:   richTextValue(props, propDescription),
		Amount:        decimal.NewFromFloat(numberValue(props, propAmount)),
		PaymentMethod: selectValue(props, propPaymentMethod),
		Category:      selectValue(props, propCategory),
	}
}

func titleProperty(content string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: content},
			},
		},
	}
}

func numberProperty(v float64) notionapi.NumberProperty {
	return notionapi.NumberProperty{Number: v}
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func titleValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.TitleProperty)
	if !ok || len(p.Title) == 0 {
		return ""
	}
	return richTextContent(p.Title[0])
}

func richTextValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.RichTextProperty)
	if !ok || len(p.RichText) == 0 {
		return ""
	}
	return richTextContent(p.RichText[0])
}

func richTextContent(rt notionapi.RichText) string {
	if rt.PlainText != "" {
		return rt.PlainText
	}
	if rt.Text != nil {
		return rt.Text.Content
	}
	return ""
}

func numberValue(props notionapi.Properties, name string) float64 {
	p, ok := props[name].(*notionapi.NumberProperty)
	if !ok {
		return 0
	}
	return p.Number
}

func selectValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.SelectProperty)
	if !ok {
		return ""
	}
	return p.Select.Name
}

func dateValue(props notionapi.Properties, name string) time.Time {
	p, ok := props[name].(*notionapi.DateProperty)
	if !ok || p.Date == nil || p.Date.Start == nil {
		return time.Time{}
	}
	return time.Time(*p.Date.Start)
}
