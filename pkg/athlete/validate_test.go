package athlete

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeCPF("123.456.789-01"))
	assert.Equal(t, "12345678901", NormalizeCPF("12345678901"))
	assert.Equal(t, "", NormalizeCPF("abc"))
}

func TestValidateNormalizesIdentifiers(t *testing.T) {
	a := validAthlete("111.111.111-11")
	a.FullName = "  Ana Silva  "
	a.GuardianCPF = "987.654.321-00"

	assert.NoError(t, Validate(&a))
	assert.Equal(t, "11111111111", a.CPF)
	assert.Equal(t, "98765432100", a.GuardianCPF)
	assert.Equal(t, "Ana Silva", a.FullName)
}

func TestValidateRequiredFields(t *testing.T) {
	a := validAthlete("11111111111")
	a.FullName = ""
	assert.ErrorIs(t, Validate(&a), ErrValidation)

	a = validAthlete("")
	assert.ErrorIs(t, Validate(&a), ErrValidation)

	a = validAthlete("123")
	assert.ErrorIs(t, Validate(&a), ErrValidation)
}

func TestValidateEnumMembership(t *testing.T) {
	cases := []func(a *Athlete){
		func(a *Athlete) { a.Sex = "desconhecido" },
		func(a *Athlete) { a.StudyShift = "madrugada" },
		func(a *Athlete) { a.UniformSize = "XXXL" },
		func(a *Athlete) { a.DominantSide = "nenhum" },
		func(a *Athlete) { a.BloodType = "C+" },
		func(a *Athlete) { a.GuardianCPF = "42" },
	}

	for _, mutate := range cases {
		a := validAthlete("11111111111")
		mutate(&a)
		assert.ErrorIs(t, Validate(&a), ErrValidation)
	}
}

func TestValidateAcceptsEmptyOptionalFields(t *testing.T) {
	a := Athlete{FullName: "Ana Silva", CPF: "11111111111"}
	assert.NoError(t, Validate(&a))
}

func TestValidateLengthBounds(t *testing.T) {
	a := validAthlete("11111111111")
	a.FullName = strings.Repeat("a", maxNameLen+1)
	assert.ErrorIs(t, Validate(&a), ErrValidation)

	a = validAthlete("11111111111")
	a.Allergy = strings.Repeat("a", maxTextLen+1)
	assert.ErrorIs(t, Validate(&a), ErrValidation)
}
