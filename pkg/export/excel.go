package export

import (
	"fmt"
	"io"
	"time"

	"github.com/projetoatleta/athlete_registration/pkg/athlete"
	"github.com/xuri/excelize/v2"
)

const SHEET_NAME = "Atletas"

var headers = []string{
	"ID", "Nome completo", "CPF", "Nascimento", "Sexo", "Telefone", "Peso", "Altura",
	"Uniforme", "Calçado", "Lado dominante", "Faixa", "Programa social",
	"Rua", "Número", "Bairro", "Cidade", "UF",
	"Escola", "Série", "Turno",
	"Restrição médica", "Alergia", "Tipo sanguíneo", "Contato de emergência", "Telefone de emergência",
	"Responsável", "CPF do responsável", "Termo aceito", "Registrado em",
}

type Excel struct {
}

// Write renders the athlete list as one worksheet, one row per record,
// in the order the store returned them (newest first).
func (e Excel) Write(w io.Writer, athletes []athlete.Athlete) error {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SHEET_NAME)

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("Write failed: %w", err)
		}
		if err := f.SetCellValue(SHEET_NAME, cell, h); err != nil {
			return fmt.Errorf("Write failed: %w", err)
		}
	}

	for i, a := range athletes {
		consent := "não"
		if a.ConsentAccepted {
			consent = "sim"
		}

		values := []interface{}{
			a.ID, a.FullName, a.CPF, a.BirthDate, a.Sex, a.Phone, a.Weight, a.Height,
			a.UniformSize, a.ShoeSize, a.DominantSide, a.BeltRank, a.SocialProgramID,
			a.Street, a.Number, a.Neighborhood, a.City, a.State,
			a.School, a.Grade, a.StudyShift,
			a.MedicalRestriction, a.Allergy, a.BloodType, a.EmergencyContactName, a.EmergencyContactPhone,
			a.GuardianName, a.GuardianCPF, consent, a.CreatedAt.Format(time.RFC3339),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("Write failed: %w", err)
		}
		if err := f.SetSheetRow(SHEET_NAME, cell, &values); err != nil {
			return fmt.Errorf("Write failed: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("Write failed: %w", err)
	}

	return nil
}
