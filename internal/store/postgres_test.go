// internal/store/postgres_test.go
package store

import (
	"context"
	"testing"

	"leadbot/internal/common/logger"
	"leadbot/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	profile := models.LeadProfile{
		InvestmentType:     "Off-plan",
		BudgetRange:        "budget $500k",
		PropertyType:       "Apartment",
		Bedrooms:           "2 Bedroom(s)",
		TargetLocation:     "Downtown",
		Name:               "John Smith",
		PhoneNumber:        "+971501234567",
		LanguagePreference: "en",
	}

	mock.ExpectExec("INSERT INTO leads").
		WithArgs("sess-1", profile.InvestmentType, profile.BudgetRange, profile.PropertyType,
			profile.Bedrooms, profile.TargetLocation, profile.LanguagePreference,
			profile.Urgency, profile.Name, profile.PhoneNumber, profile.Email,
			130, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(db, logger.NewNoOpLogger())
	err = s.SaveLead(context.Background(), "sess-1", profile, 130)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLead_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO leads").
		WillReturnError(assert.AnError)

	s := NewPostgresStore(db, logger.NewNoOpLogger())
	err = s.SaveLead(context.Background(), "sess-1", models.NewLeadProfile(), 0)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogConversation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	messages := []models.ConversationMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "Welcome!"},
	}

	mock.ExpectExec("INSERT INTO conversations").
		WithArgs("sess-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(db, logger.NewNoOpLogger())
	err = s.LogConversation(context.Background(), "sess-1", messages)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
