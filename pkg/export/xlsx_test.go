package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(Table{
		Sheet:   "Invoices",
		Headers: []string{"Invoice", "Total"},
		Rows: [][]interface{}{
			{"INV-1", 100.0},
			{"INV-2", 75.5},
		},
		Footer: []interface{}{"Total", 175.5},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Invoice", "Total"}, rows[0])
	assert.Equal(t, "INV-2", rows[2][0])
	assert.Equal(t, "175.5", rows[4][1])
}

func TestWriteXLSXRequiresTable(t *testing.T) {
	_, err := WriteXLSX()
	assert.Error(t, err)
}
