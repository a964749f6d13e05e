package service

import (
	"bytes"
	"fmt"

	"dlc-report/internal/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Weekly Reports"

var exportHeaders = []string{
	"Submitted At", "LGA", "Team", "Week", "Month", "Year", "Trainees",
	"P", "ABS", "NT", "NDB", "Submitted By",
}

// ExportReports renders reports as an xlsx workbook, one row per report with
// a totals row at the bottom.
func ExportReports(reports []model.WeeklyReport, lgas []model.LGA, teams []model.Team) ([]byte, error) {
	lgaNames := make(map[string]string, len(lgas))
	for _, l := range lgas {
		lgaNames[l.ID] = l.Name
	}
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheet, "A", "A", 26)
	f.SetColWidth(exportSheet, "B", "C", 20)
	f.SetColWidth(exportSheet, "L", "L", 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#047857"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", last, headerStyle)

	for i, r := range reports {
		counts := map[model.Status]int{}
		for _, ms := range r.MemberStatuses {
			counts[ms.Status]++
		}
		teamName := teamNames[r.TeamID]
		if teamName == "" {
			teamName = r.TeamID
		}
		row := []any{
			r.SubmittedAt, lgaNames[r.LGAID], teamName, r.Week, r.Month, r.Year, r.TraineesTrained,
			counts[model.StatusPresent], counts[model.StatusAbsent],
			counts[model.StatusNotTrained], counts[model.StatusNoData],
			r.SubmittedBy,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	sum := ComputeSummary(reports)
	totalRow := len(reports) + 2
	totals := []any{
		"Total", "", "", "", "", "", sum.TotalTrainees,
		sum.StatusCounts[model.StatusPresent], sum.StatusCounts[model.StatusAbsent],
		sum.StatusCounts[model.StatusNotTrained], sum.StatusCounts[model.StatusNoData],
		fmt.Sprintf("Participation %d%%", sum.ParticipationRate),
	}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(exportSheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
