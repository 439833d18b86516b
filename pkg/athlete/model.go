package athlete

import "time"

// Athlete is one registered participant of the program. ID and CreatedAt
// are assigned by the store on create and never change afterwards; there
// is no edit operation, a wrong record is deleted and registered again.
type Athlete struct {
	ID  int64  `json:"id"`
	CPF string `json:"cpf"`

	FullName        string `json:"full_name"`
	BirthDate       string `json:"birth_date"`
	Sex             string `json:"sex"`
	Phone           string `json:"phone"`
	Weight          string `json:"weight"`
	Height          string `json:"height"`
	UniformSize     string `json:"uniform_size"`
	ShoeSize        string `json:"shoe_size"`
	Photo           string `json:"photo"`
	DominantSide    string `json:"dominant_side"`
	BeltRank        string `json:"belt_rank"`
	SocialProgramID string `json:"social_program_id"`

	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`

	School     string `json:"school"`
	Grade      string `json:"grade"`
	StudyShift string `json:"study_shift"`

	MedicalRestriction    string `json:"medical_restriction"`
	Allergy               string `json:"allergy"`
	BloodType             string `json:"blood_type"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	GuardianName    string `json:"guardian_name"`
	GuardianCPF     string `json:"guardian_cpf"`
	ConsentAccepted bool   `json:"consent_accepted"`

	CreatedAt time.Time `json:"created_at"`
}
