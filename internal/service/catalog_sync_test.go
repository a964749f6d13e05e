package service

import (
	"strings"
	"testing"

	"dlc-report/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestReportCSVRow(t *testing.T) {
	r := report("report-1", "KT-T1", "KT", 11, model.StatusPresent, model.StatusPresent, model.StatusAbsent, model.StatusNoData)
	r.SubmittedAt = "2024-06-03T10:00:00.000Z"
	r.SubmittedBy = "Leader (KT Team Alpha)"

	got := reportCSVRow(r, `Alpha, "North"`)
	assert.Equal(t, `report-1,KT-T1,"Alpha, ""North""",KT,1,January,2024,11,2,1,0,1,2024-06-03T10:00:00.000Z,Leader (KT Team Alpha)`+"\n", got)
}

func TestReportMappingMatchesRow(t *testing.T) {
	r := report("report-2", "BAT-T1", "BAT", 0)
	cols := strings.Split(strings.TrimSuffix(reportCSVRow(r, "Zenith"), "\n"), ",")
	assert.Len(t, cols, len(reportMapping))
	for i, m := range reportMapping {
		assert.EqualValues(t, i+1, m.ColNumInFile, m.TableColumn)
	}
}
