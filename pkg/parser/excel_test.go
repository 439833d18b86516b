package parser

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildRoster(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SHEET_NAME)

	meta := [][]interface{}{
		{"Projeto Atleta — planilha de inscrições"},
		{"Nome", "CPF", "Nascimento", "Sexo", "Telefone", "Tipo sanguíneo", "Escola",
			"Série", "Turno", "Cidade", "Responsável", "CPF do responsável", "Termo aceito"},
	}

	for i, row := range append(meta, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SHEET_NAME, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXlsx(t *testing.T) {
	buf := buildRoster(t, [][]interface{}{
		{"Ana Silva", "111.111.111-11", "2010-03-14", "Feminino", "85 99999-0000", "o+",
			"EM Castelo Branco", "7º ano", "Manhã", "Fortaleza", "Marcos Silva", "987.654.321-00", "sim"},
		{"Bruno Souza", "222.222.222-22", "2009-07-01", "Masculino", "", "A-",
			"", "", "tarde", "Caucaia", "Lia Souza", "111.222.333-44", "não"},
		{"", "", "", "", "", "", "", "", "", "", "", "", ""}, // empty row
		{"Caio Lima", "42", "2011-01-01", "masculino", "", "", "", "", "", "", "", "", "sim"}, // bad cpf
	})

	res, err := Impl{}.ParseXlsx(buf)
	require.NoError(t, err)

	require.Len(t, res.Athletes, 2)

	ana, ok := res.Athletes["11111111111"]
	require.True(t, ok)
	assert.Equal(t, "Ana Silva", ana.FullName)
	assert.Equal(t, "feminino", ana.Sex)
	assert.Equal(t, "O+", ana.BloodType)
	assert.Equal(t, "manhã", ana.StudyShift)
	assert.Equal(t, "98765432100", ana.GuardianCPF)
	assert.True(t, ana.ConsentAccepted)

	bruno, ok := res.Athletes["22222222222"]
	require.True(t, ok)
	assert.False(t, bruno.ConsentAccepted)

	// One bad row out of three non-empty ones.
	assert.Equal(t, 33, res.PercentErrs)
}

func TestParseXlsxUnknownConsentValueFailsRow(t *testing.T) {
	buf := buildRoster(t, [][]interface{}{
		{"Ana Silva", "111.111.111-11", "2010-03-14", "feminino", "", "", "", "", "", "",
			"Marcos Silva", "987.654.321-00", "talvez"},
	})

	res, err := Impl{}.ParseXlsx(buf)
	require.NoError(t, err)
	assert.Empty(t, res.Athletes)
	assert.Equal(t, 100, res.PercentErrs)
}

func TestParseXlsxDuplicateCPFCollapses(t *testing.T) {
	buf := buildRoster(t, [][]interface{}{
		{"Ana Silva", "111.111.111-11", "2010-03-14", "feminino", "", "", "", "", "", "", "", "", "sim"},
		{"Ana S.", "11111111111", "2010-03-14", "feminino", "", "", "", "", "", "", "", "", "sim"},
	})

	res, err := Impl{}.ParseXlsx(buf)
	require.NoError(t, err)
	require.Len(t, res.Athletes, 1)
	assert.Equal(t, "Ana S.", res.Athletes["11111111111"].FullName)
}

func TestParseXlsxRowCountGuard(t *testing.T) {
	rows := make([][]interface{}, MAX_COUNT_OF_ROWS)
	for i := range rows {
		rows[i] = []interface{}{fmt.Sprintf("Atleta %d", i), "111.111.111-11", "", "", "", "", "", "", "", "", "", "", "sim"}
	}

	buf := buildRoster(t, rows)

	_, err := Impl{}.ParseXlsx(buf)
	assert.Error(t, err)
}

func TestParseXlsxMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Impl{}.ParseXlsx(buf)
	assert.Error(t, err)
}
