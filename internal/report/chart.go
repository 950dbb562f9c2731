package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/shopspring/decimal"
)

const quickchartDefaultURL = "https://quickchart.io/chart"

// chartPalette matches one color per category bar, recycled when the
// taxonomy outgrows it.
var chartPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// ChartRenderer renders the per-category bar chart through an external
// chart service. The service is an opaque collaborator: config in, image
// bytes out.
type ChartRenderer struct {
	url        string
	httpClient *http.Client
}

// NewChartRenderer creates a renderer against the default chart service.
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{
		url:        quickchartDefaultURL,
		httpClient: http.DefaultClient,
	}
}

// Render produces a bar-chart image of spending per category. Categories
// are sorted so the same totals always produce the same chart.
func (r *ChartRenderer) Render(ctx context.Context, categoryTotals map[string]decimal.Decimal) ([]byte, error) {
	labels := make([]string, 0, len(categoryTotals))
	for category := range categoryTotals {
		labels = append(labels, category)
	}
	sort.Strings(labels)

	data := make([]float64, 0, len(labels))
	colors := make([]string, 0, len(labels))
	for i, label := range labels {
		v, _ := categoryTotals[label].Float64()
		data = append(data, v)
		colors = append(colors, chartPalette[i%len(chartPalette)])
	}

	config := map[string]any{
		"type": "bar",
		"data": map[string]any{
			"labels": labels,
			"datasets": []map[string]any{{
				"label":           "Gastos por Categoria",
				"data":            data,
				"backgroundColor": colors,
				"borderRadius":    6,
				"barPercentage":   0.7,
			}},
		},
		"options": map[string]any{
			"plugins": map[string]any{
				"legend": map[string]any{"display": false},
				"title": map[string]any{
					"display": true,
					"text":    "Gastos por Categoria",
					"font":    map[string]any{"size": 18},
				},
			},
		},
	}

	encoded, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("Render: marshal chart config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.url+"?c="+url.QueryEscape(string(encoded)), nil)
	if err != nil {
		return nil, fmt.Errorf("Render: build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Render: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Render: chart service status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Render: read image: %w", err)
	}

	return image, nil
}
