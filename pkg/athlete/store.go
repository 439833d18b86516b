package athlete

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/projetoatleta/athlete_registration/pkg/database"
)

// Store is the persistence contract for athlete records. The HTTP layer
// receives one at construction so tests can inject MemoryStore instead
// of a live database.
type Store interface {
	Create(ctx context.Context, a Athlete) (int64, error)
	List(ctx context.Context) ([]Athlete, error)
	DeleteByID(ctx context.Context, id int64) error
}

const pgUniqueViolation = "23505"

type Service struct {
	db *database.Postgres
}

var _ Store = (*Service)(nil)

func NewService(db *database.Postgres) *Service {
	return &Service{db: db}
}

const insertAthlete = `insert into athletes (cpf, full_name, birth_date, sex, phone, weight, height,
	uniform_size, shoe_size, photo, dominant_side, belt_rank, social_program_id,
	street, number, neighborhood, city, state, school, grade, study_shift,
	medical_restriction, allergy, blood_type, emergency_contact_name, emergency_contact_phone,
	guardian_name, guardian_cpf, consent_accepted)
	values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
	$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
	returning id;`

// Create persists one athlete and returns the assigned id. Uniqueness of
// the CPF is left to the column constraint so two concurrent submissions
// of the same CPF cannot both pass an application-level check.
func (s *Service) Create(ctx context.Context, a Athlete) (int64, error) {
	if a.FullName == "" || a.CPF == "" {
		return 0, fmt.Errorf("Create failed: %w", ErrValidation)
	}

	consent := 0
	if a.ConsentAccepted {
		consent = 1
	}

	row := s.db.Pool.QueryRow(ctx, insertAthlete,
		a.CPF, a.FullName, a.BirthDate, a.Sex, a.Phone, a.Weight, a.Height,
		a.UniformSize, a.ShoeSize, a.Photo, a.DominantSide, a.BeltRank, a.SocialProgramID,
		a.Street, a.Number, a.Neighborhood, a.City, a.State, a.School, a.Grade, a.StudyShift,
		a.MedicalRestriction, a.Allergy, a.BloodType, a.EmergencyContactName, a.EmergencyContactPhone,
		a.GuardianName, a.GuardianCPF, consent)

	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("Create failed: %w: %s", ErrDuplicateCPF, a.CPF)
		}
		return 0, fmt.Errorf("Create failed: %w", err)
	}

	return id, nil
}

const selectAthletes = `select id, cpf, full_name, birth_date, sex, phone, weight, height,
	uniform_size, shoe_size, photo, dominant_side, belt_rank, social_program_id,
	street, number, neighborhood, city, state, school, grade, study_shift,
	medical_restriction, allergy, blood_type, emergency_contact_name, emergency_contact_phone,
	guardian_name, guardian_cpf, consent_accepted, created_at
	from athletes order by created_at desc, id desc;`

// List returns every registered athlete, newest first. The dataset is
// bounded (one youth program), so there is no pagination.
func (s *Service) List(ctx context.Context) ([]Athlete, error) {
	rows, err := s.db.Pool.Query(ctx, selectAthletes)
	if err != nil {
		return nil, fmt.Errorf("List failed: %w", err)
	}
	defer rows.Close()

	athletes := make([]Athlete, 0, 32)
	for rows.Next() {
		var a Athlete
		var consent int16

		err := rows.Scan(&a.ID, &a.CPF, &a.FullName, &a.BirthDate, &a.Sex, &a.Phone, &a.Weight,
			&a.Height, &a.UniformSize, &a.ShoeSize, &a.Photo, &a.DominantSide, &a.BeltRank,
			&a.SocialProgramID, &a.Street, &a.Number, &a.Neighborhood, &a.City, &a.State,
			&a.School, &a.Grade, &a.StudyShift, &a.MedicalRestriction, &a.Allergy, &a.BloodType,
			&a.EmergencyContactName, &a.EmergencyContactPhone, &a.GuardianName, &a.GuardianCPF,
			&consent, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("List failed: %w", err)
		}

		a.ConsentAccepted = consent == 1
		athletes = append(athletes, a)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("List failed: %w", rows.Err())
	}

	return athletes, nil
}

// DeleteByID removes the row with the given id. Deleting an id that does
// not exist is not an error, zero rows affected counts as done.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.db.Pool.Exec(ctx, `delete from athletes where id = $1;`, id); err != nil {
		return fmt.Errorf("DeleteByID failed: %w", err)
	}
	return nil
}
