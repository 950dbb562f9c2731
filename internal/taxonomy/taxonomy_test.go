package taxonomy

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alimentação", "alimentacao"},
		{"ALIMENTAÇÃO", "alimentacao"},
		{"  Saúde  ", "saude"},
		{"Dívidas", "dividas"},
		{"pix", "pix"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"exact", "Alimentação", "Alimentação"},
		{"case insensitive", "alimentação", "Alimentação"},
		{"diacritic insensitive", "saude", "Saúde"},
		{"upper without accents", "EDUCACAO", "Educação"},
		{"model prose around category", "Categoria: Transporte", "Transporte"},
		{"partial entry", "aliment", "Alimentação"},
		{"unknown maps to catch-all", "criptomoedas", "Outro"},
		{"empty maps to catch-all", "", "Outro"},
		{"whitespace only", "   ", "Outro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchCategory(tt.raw); got != tt.want {
				t.Errorf("MatchCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMatchCategory_FirstDeclaredWins(t *testing.T) {
	// A string that substring-matches several entries must resolve to the
	// first one in declaration order.
	got := MatchCategory("a")
	if got != Categories[0] {
		t.Errorf("MatchCategory(%q) = %q, want first declared entry %q", "a", got, Categories[0])
	}
}

func TestMatchPaymentMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"pix", "Pix"},
		{"no pix", "Pix"},
		{"credito", "Crédito"},
		{"cartão", "Cartão"},
		{"dinheiro", "Dinheiro"},
		{"boleto", "Outro"},
		{"", "Outro"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := MatchPaymentMethod(tt.raw); got != tt.want {
				t.Errorf("MatchPaymentMethod(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
