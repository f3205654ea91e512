package keywords

import (
	"strings"

	"tubelens/internal/models"
)

// Simulated Naver Datalab data, used when every upstream call fails.
var fallbackKeywordTable = []models.KeywordData{
	{Text: "건강", Value: 95, SearchVolume: 1500000, Trend: 85.5, Competition: "HIGH", CPC: 4.28},
	{Text: "운동", Value: 88, SearchVolume: 1200000, Trend: 78.2, Competition: "HIGH", CPC: 3.91},
	{Text: "다이어트", Value: 82, SearchVolume: 980000, Trend: 72.1, Competition: "MEDIUM", CPC: 3.61},
	{Text: "요리", Value: 78, SearchVolume: 850000, Trend: 68.5, Competition: "MEDIUM", CPC: 3.43},
	{Text: "여행", Value: 75, SearchVolume: 720000, Trend: 65.2, Competition: "HIGH", CPC: 3.26},
	{Text: "게임", Value: 72, SearchVolume: 680000, Trend: 62.8, Competition: "HIGH", CPC: 3.14},
	{Text: "영화", Value: 68, SearchVolume: 620000, Trend: 59.1, Competition: "MEDIUM", CPC: 2.96},
	{Text: "음악", Value: 65, SearchVolume: 580000, Trend: 56.3, Competition: "MEDIUM", CPC: 2.82},
	{Text: "책", Value: 62, SearchVolume: 520000, Trend: 53.7, Competition: "LOW", CPC: 2.69},
	{Text: "공부", Value: 58, SearchVolume: 480000, Trend: 50.2, Competition: "MEDIUM", CPC: 2.51},
	{Text: "취미", Value: 55, SearchVolume: 450000, Trend: 47.8, Competition: "LOW", CPC: 2.39},
	{Text: "패션", Value: 52, SearchVolume: 420000, Trend: 45.1, Competition: "HIGH", CPC: 2.26},
	{Text: "뷰티", Value: 48, SearchVolume: 380000, Trend: 42.3, Competition: "MEDIUM", CPC: 2.12},
	{Text: "자동차", Value: 45, SearchVolume: 350000, Trend: 39.8, Competition: "HIGH", CPC: 1.99},
	{Text: "부동산", Value: 42, SearchVolume: 320000, Trend: 37.2, Competition: "HIGH", CPC: 1.86},
}

var fallbackShoppingTable = []models.KeywordData{
	{Text: "스마트폰", Value: 90, SearchVolume: 1800000, Trend: 82.5, Competition: "HIGH", CPC: 4.13},
	{Text: "노트북", Value: 85, SearchVolume: 1200000, Trend: 76.8, Competition: "HIGH", CPC: 3.84},
	{Text: "헤드폰", Value: 80, SearchVolume: 950000, Trend: 71.2, Competition: "MEDIUM", CPC: 3.56},
	{Text: "스마트워치", Value: 75, SearchVolume: 780000, Trend: 66.5, Competition: "MEDIUM", CPC: 3.33},
	{Text: "태블릿", Value: 70, SearchVolume: 650000, Trend: 61.8, Competition: "MEDIUM", CPC: 3.09},
}

// fallbackKeywords returns the simulated table, narrowed to entries
// related to the query when one is given.
func fallbackKeywords(query string) []models.KeywordData {
	if query == "" {
		return append([]models.KeywordData(nil), fallbackKeywordTable...)
	}

	lowered := strings.ToLower(query)
	var matched []models.KeywordData
	for _, kw := range fallbackKeywordTable {
		text := strings.ToLower(kw.Text)
		if strings.Contains(text, lowered) || strings.Contains(lowered, text) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func fallbackShopping() []models.KeywordData {
	return append([]models.KeywordData(nil), fallbackShoppingTable...)
}
