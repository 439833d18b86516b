package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/projetoatleta/athlete_registration/pkg/athlete"
	"github.com/xuri/excelize/v2"
)

const (
	SHEET_NAME             = "Plan1"
	COUNT_OF_METAINFO_ROWS = 2

	// Constants for parser protection
	MAX_COUNT_OF_ROWS                      = 1500
	MAX_LEN_OF_ROW                         = 16
	COUNTS_OF_LONG_ROWS_BEFORE_BLOCK_EXCEL = 10

	// Roster column layout, fixed by the template coaches receive.
	COL_FULL_NAME     = 0
	COL_CPF           = 1
	COL_BIRTH_DATE    = 2
	COL_SEX           = 3
	COL_PHONE         = 4
	COL_BLOOD_TYPE    = 5
	COL_SCHOOL        = 6
	COL_GRADE         = 7
	COL_STUDY_SHIFT   = 8
	COL_CITY          = 9
	COL_GUARDIAN_NAME = 10
	COL_GUARDIAN_CPF  = 11
	COL_CONSENT       = 12

	MIN_COUNT_OF_CELLS = COL_CONSENT + 1
)

type Impl struct {
}

// ParseXlsx reads a roster workbook and collects one athlete per valid
// row, keyed by CPF. Malformed rows are counted, not fatal, the caller
// decides what an acceptable error percentage is.
func (i Impl) ParseXlsx(r io.Reader) (*athlete.RosterResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader failed: %w", err)
	}

	defer func() {
		if err := f.Close(); err != nil {
		}
	}()

	rows, err := f.GetRows(SHEET_NAME)
	if err != nil {
		return nil, fmt.Errorf("f.GetRows failed: %w", err)
	}

	if len(rows) > MAX_COUNT_OF_ROWS {
		return nil, errors.New("Xlsx doc has more than 1500 rows. It seems that someone try to DDOS us...")
	}

	percentErrs, m, err := rosterParser(rows)
	if err != nil {
		return nil, fmt.Errorf("rosterParser failed: %w", err)
	}

	return &athlete.RosterResult{PercentErrs: percentErrs, Athletes: m}, nil
}

func rosterParser(arr [][]string) (percentErrs int, m map[string]athlete.Athlete, err error) {
	m = make(map[string]athlete.Athlete, len(arr))
	countOfErrs := 0
	countOfEmptyRows := 0
	countOfVeryLongRows := 0

	for i, row := range arr {
		if i < COUNT_OF_METAINFO_ROWS {
			continue
		}

		if row == nil || len(row) <= COL_CPF || row[COL_FULL_NAME] == "" || row[COL_CPF] == "" {
			countOfEmptyRows++
			continue
		}

		// excelize trims trailing empty cells, pad so the converter can
		// index every column.
		for len(row) < MIN_COUNT_OF_CELLS {
			row = append(row, "")
		}

		// Files stuffed with long rows are treated as spam, same limit
		// as the mail intake path.
		if len(row) > MAX_LEN_OF_ROW {
			countOfVeryLongRows++
			if countOfVeryLongRows > COUNTS_OF_LONG_ROWS_BEFORE_BLOCK_EXCEL {
				return countOfErrs, nil, errors.New("We found too much long rows. It seems that it is spam.")
			}
		}

		entity, err := rowAthleteConverter(row)
		if err != nil {
			countOfErrs++
			continue
		}

		m[entity.CPF] = entity
	}

	totalRows := len(arr) - COUNT_OF_METAINFO_ROWS - countOfEmptyRows
	if totalRows > 0 {
		percentErrs = countOfErrs * 100 / totalRows
	}

	return percentErrs, m, nil
}

func rowAthleteConverter(arr []string) (athlete.Athlete, error) {
	cpf := athlete.NormalizeCPF(arr[COL_CPF])
	if len(cpf) != 11 {
		return athlete.Athlete{}, fmt.Errorf("rowAthleteConverter: cpf %q has wrong length", arr[COL_CPF])
	}

	consent := false
	switch strings.ToLower(arr[COL_CONSENT]) {
	case "sim":
		consent = true
	case "nao", "não", "":
		consent = false
	default:
		return athlete.Athlete{}, fmt.Errorf("rowAthleteConverter: unknown consent value %q", arr[COL_CONSENT])
	}

	return athlete.Athlete{
		FullName:        strings.TrimSpace(arr[COL_FULL_NAME]),
		CPF:             cpf,
		BirthDate:       arr[COL_BIRTH_DATE],
		Sex:             strings.ToLower(arr[COL_SEX]),
		Phone:           arr[COL_PHONE],
		BloodType:       strings.ToUpper(arr[COL_BLOOD_TYPE]),
		School:          arr[COL_SCHOOL],
		Grade:           arr[COL_GRADE],
		StudyShift:      strings.ToLower(arr[COL_STUDY_SHIFT]),
		City:            arr[COL_CITY],
		GuardianName:    strings.TrimSpace(arr[COL_GUARDIAN_NAME]),
		GuardianCPF:     athlete.NormalizeCPF(arr[COL_GUARDIAN_CPF]),
		ConsentAccepted: consent,
	}, nil
}
