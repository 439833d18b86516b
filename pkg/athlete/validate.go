package athlete

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	maxNameLen = 120
	maxTextLen = 500
)

var (
	allowedSex          = map[string]bool{"masculino": true, "feminino": true, "outro": true}
	allowedShift        = map[string]bool{"manha": true, "manhã": true, "tarde": true, "noite": true}
	allowedUniformSize  = map[string]bool{"PP": true, "P": true, "M": true, "G": true, "GG": true, "XG": true}
	allowedDominantSide = map[string]bool{"destro": true, "canhoto": true, "ambidestro": true}
	allowedBloodType    = map[string]bool{
		"A+": true, "A-": true, "B+": true, "B-": true,
		"AB+": true, "AB-": true, "O+": true, "O-": true,
	}
)

// NormalizeCPF strips the usual 000.000.000-00 punctuation, keeping only
// digits.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the registration payload before it reaches the store
// and normalizes the identifier fields in place. The store constraints
// would reject most of these anyway, catching them here gives the client
// a message about the actual field instead of a column name.
func Validate(a *Athlete) error {
	a.FullName = strings.TrimSpace(a.FullName)
	a.CPF = NormalizeCPF(a.CPF)
	a.GuardianCPF = NormalizeCPF(a.GuardianCPF)

	if a.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if len(a.FullName) > maxNameLen {
		return fmt.Errorf("%w: full_name is longer than %d characters", ErrValidation, maxNameLen)
	}
	if a.CPF == "" {
		return fmt.Errorf("%w: cpf is required", ErrValidation)
	}
	if len(a.CPF) != 11 {
		return fmt.Errorf("%w: cpf must have 11 digits", ErrValidation)
	}
	if a.GuardianCPF != "" && len(a.GuardianCPF) != 11 {
		return fmt.Errorf("%w: guardian_cpf must have 11 digits", ErrValidation)
	}

	if v := strings.ToLower(a.Sex); v != "" && !allowedSex[v] {
		return fmt.Errorf("%w: unknown sex %q", ErrValidation, a.Sex)
	}
	if v := strings.ToLower(a.StudyShift); v != "" && !allowedShift[v] {
		return fmt.Errorf("%w: unknown study_shift %q", ErrValidation, a.StudyShift)
	}
	if v := strings.ToUpper(a.UniformSize); v != "" && !allowedUniformSize[v] {
		return fmt.Errorf("%w: unknown uniform_size %q", ErrValidation, a.UniformSize)
	}
	if v := strings.ToLower(a.DominantSide); v != "" && !allowedDominantSide[v] {
		return fmt.Errorf("%w: unknown dominant_side %q", ErrValidation, a.DominantSide)
	}
	if v := strings.ToUpper(a.BloodType); v != "" && !allowedBloodType[v] {
		return fmt.Errorf("%w: unknown blood_type %q", ErrValidation, a.BloodType)
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"medical_restriction", a.MedicalRestriction},
		{"allergy", a.Allergy},
		{"street", a.Street},
		{"school", a.School},
	} {
		if len(f.value) > maxTextLen {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrValidation, f.name, maxTextLen)
		}
	}

	return nil
}
