package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guuleed/prison-records/internal/repository"
)

func sampleRows() []repository.DetaineeRow {
	age := 34
	return []repository.DetaineeRow{
		{
			Code:          "DNB010926001",
			FullName:      "Axmed Cali",
			NationalID:    "NID-1001",
			PrisonName:    "Central",
			RoomName:      "Block A",
			Status:        "in_prison",
			CrimeType:     "theft",
			Age:           &age,
			FineAmount:    100,
			PaidTotal:     60,
			RemainingFine: 40,
		},
		{
			Code:           "DNB010926002",
			FullName:       "Faadumo Xasan",
			NationalID:     "NID-1002",
			Status:         "not_sentenced",
			CrimeType:      "other",
			CrimeTypeOther: "smuggling",
		},
	}
}

func TestCSVIncludesHeaderAndProjections(t *testing.T) {
	out, err := CSV(sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "DNB010926001", records[1][1])
	assert.Equal(t, "34", records[1][8])
	assert.Equal(t, "100.00", records[1][9])
	assert.Equal(t, "60.00", records[1][10])
	assert.Equal(t, "40.00", records[1][11])
}

func TestCSVCombinesOtherCrimeTypeAndBlankAge(t *testing.T) {
	out, err := CSV(sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, "other - smuggling", records[2][7])
	assert.Equal(t, "", records[2][8])
	assert.Equal(t, "", records[2][4]) // no prison assigned
}

func TestXLSXRoundTrip(t *testing.T) {
	out, err := XLSX(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Detainees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Code", rows[0][1])
	assert.Equal(t, "DNB010926001", rows[1][1])
	assert.Equal(t, "Faadumo Xasan", rows[2][2])
}
