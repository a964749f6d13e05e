package main

import (
	"context"

	"dlc-report/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

var dlcKnowledge = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "DLC", Value: []string{"Digital Learning Centre; each team runs trainings for one LGA"}},
	{Type: "glossary", Key: "LGA", Value: []string{"Local Government Area of Katsina State, stored as a short code in lga_id (KT, BAT, MAL, DAU, KAN, MAS)"}},
	{Type: "glossary", Key: "P/ABS/NT/NDB", Value: []string{"member status codes: P present, ABS absent, NT not trained, NDB no data brought"}},
	{Type: "glossary", Key: "participation rate", Value: []string{"sum(present) / (sum(present) + sum(absent)) * 100, rounded; 0 when both are 0"}},

	{Type: "synonyms", Key: "trainees/people trained/beneficiaries", Value: []string{"trainees trained in a week"}, AssociateTables: []string{"weekly_reports,trainees_trained"}},
	{Type: "synonyms", Key: "area/local government/district", Value: []string{"LGA code"}, AssociateTables: []string{"weekly_reports,lga_id"}},
	{Type: "synonyms", Key: "leader/reporter/submitted by", Value: []string{"submitting team leader"}, AssociateTables: []string{"weekly_reports,submitted_by"}},

	{Type: "logic", Key: "a reporting period is (week, month, year); the same team may file more than one report for a period", Value: []string{"do not deduplicate by period unless asked"}},
	{Type: "logic", Key: "month holds the English month name, order months with FIELD(month,'January',...,'December')", Value: []string{"month ordering rule"}},

	{Type: "case_library", Key: "total trainees per LGA", Value: []string{"SELECT lga_id, SUM(trainees_trained) AS trainees FROM weekly_reports GROUP BY lga_id ORDER BY trainees DESC"}},
	{Type: "case_library", Key: "participation rate for KT", Value: []string{"SELECT ROUND(SUM(present) * 100 / NULLIF(SUM(present) + SUM(absent), 0)) AS rate FROM weekly_reports WHERE lga_id = 'KT'"}},
	{Type: "case_library", Key: "which teams have not reported this month", Value: []string{"SELECT t.name FROM teams t LEFT JOIN weekly_reports r ON r.team_id = t.id AND r.month = MONTHNAME(CURDATE()) AND r.year = YEAR(CURDATE()) WHERE r.id IS NULL"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range dlcKnowledge {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
