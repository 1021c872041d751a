package validation

import (
	"testing"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grade(g string) *models.Grade {
	v := models.Grade(g)
	return &v
}

func TestValidateMediaInput(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   models.MediaInput
		message string
	}{
		{
			name:  "valid",
			input: models.MediaInput{Title: "Dune", CategoryID: 3, Status: models.StatusOwned, Rating: grade("A-")},
		},
		{
			name:  "valid without rating",
			input: models.MediaInput{Title: "Dune", CategoryID: 3, Status: models.StatusWishlist},
		},
		{
			name:    "missing title",
			input:   models.MediaInput{CategoryID: 3, Status: models.StatusOwned},
			message: "Title is required",
		},
		{
			name:    "title reported before category",
			input:   models.MediaInput{Status: models.StatusOwned},
			message: "Title is required",
		},
		{
			name:    "missing category",
			input:   models.MediaInput{Title: "Dune", Status: models.StatusOwned},
			message: "Category is required",
		},
		{
			name:    "bad status",
			input:   models.MediaInput{Title: "Dune", CategoryID: 3, Status: "borrowed"},
			message: "Status must be one of: wishlist owned in_progress completed dropped",
		},
		{
			name:    "bad rating",
			input:   models.MediaInput{Title: "Dune", CategoryID: 3, Status: models.StatusOwned, Rating: grade("E")},
			message: "Rating must be one of: F D- D D+ C- C C+ B- B B+ A- A A+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	err := NewValidator().Validate(models.MediaInput{})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "category_id")
	assert.Contains(t, ve.Fields, "status")
}
