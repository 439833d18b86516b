package athlete

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAthlete(cpf string) Athlete {
	return Athlete{
		FullName:        "Ana Silva",
		CPF:             cpf,
		BirthDate:       "2010-03-14",
		Sex:             "feminino",
		City:            "Fortaleza",
		GuardianName:    "Marcos Silva",
		GuardianCPF:     "98765432100",
		ConsentAccepted: true,
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var last int64
	for _, cpf := range []string{"11111111111", "22222222222", "33333333333"} {
		id, err := store.Create(ctx, validAthlete(cpf))
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, athletes, 3)
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := validAthlete("11111111111")
	a.FullName = ""
	_, err := store.Create(ctx, a)
	assert.ErrorIs(t, err, ErrValidation)

	a = validAthlete("")
	_, err = store.Create(ctx, a)
	assert.ErrorIs(t, err, ErrValidation)

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, athletes)
}

func TestCreateDuplicateCPFKeepsRowCount(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, validAthlete("11111111111"))
	require.NoError(t, err)

	_, err = store.Create(ctx, validAthlete("11111111111"))
	assert.ErrorIs(t, err, ErrDuplicateCPF)

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, athletes, 1)
}

func TestListReturnsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, validAthlete("11111111111"))
	require.NoError(t, err)
	second, err := store.Create(ctx, validAthlete("22222222222"))
	require.NoError(t, err)

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, athletes, 2)
	assert.Equal(t, second, athletes[0].ID)
	assert.Equal(t, first, athletes[1].ID)
	assert.False(t, athletes[0].CreatedAt.Before(athletes[1].CreatedAt))
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, validAthlete("11111111111"))
	require.NoError(t, err)
	_, err = store.Create(ctx, validAthlete("22222222222"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByID(ctx, id))
	require.NoError(t, store.DeleteByID(ctx, id))
	require.NoError(t, store.DeleteByID(ctx, 404))

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, athletes, 1)
	assert.NotEqual(t, id, athletes[0].ID)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, validAthlete("11111111111"))
	require.NoError(t, err)
	require.NoError(t, store.DeleteByID(ctx, id))

	next, err := store.Create(ctx, validAthlete("11111111111"))
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestCreateListRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := validAthlete("11111111111")
	in.Weight = "42.5"
	in.UniformSize = "M"
	in.BloodType = "O+"
	in.MedicalRestriction = "asma"

	id, err := store.Create(ctx, in)
	require.NoError(t, err)

	athletes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, athletes, 1)

	got := athletes[0]
	assert.Equal(t, id, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	// Every field besides the store-assigned ones comes back unchanged.
	got.ID = 0
	got.CreatedAt = in.CreatedAt
	assert.Equal(t, in, got)
}
