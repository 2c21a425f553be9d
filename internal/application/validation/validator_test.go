package validation_test

import (
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"omitempty,postalcode"`
}

type sample struct {
	FirstName string           `json:"firstName" validate:"trimmin=2"`
	Email     string           `json:"email" validate:"required,email"`
	Phone     string           `json:"phone" validate:"phone"`
	Price     decimal.Decimal  `json:"price" validate:"gte=0"`
	Estimate  *decimal.Decimal `json:"estimate,omitempty" validate:"omitempty,gt=0"`
	Scheduled *time.Time       `json:"scheduledDate,omitempty" validate:"omitempty,future"`
	Status    string           `json:"status" validate:"oneof=new won lost"`
	Address   address          `json:"address"`
}

func validSample() sample {
	return sample{
		FirstName: "Ana",
		Email:     "ana@example.com",
		Phone:     "+34 600 123 456",
		Price:     decimal.NewFromInt(10),
		Status:    "new",
		Address:   address{City: "Madrid", PostalCode: "28001"},
	}
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Struct(validSample()))
}

func TestValidator_CollectsEveryViolation(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	v := validation.NewWithClock(func() time.Time { return now })

	yesterday := now.AddDate(0, 0, -1)
	zero := decimal.Zero
	s := validSample()
	s.FirstName = "  A "
	s.Email = "no-es-email"
	s.Phone = "123"
	s.Price = decimal.NewFromInt(-5)
	s.Estimate = &zero
	s.Scheduled = &yesterday
	s.Status = "maybe"
	s.Address = address{PostalCode: "!!"}

	err := v.Struct(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	details := domain.DetailsOf(err)
	assert.Len(t, details, 9)
	assert.Contains(t, details, "firstName debe tener al menos 2 caracteres")
	assert.Contains(t, details, "email debe ser un email válido")
	assert.Contains(t, details, "phone debe ser un teléfono válido (mínimo 10 dígitos)")
	assert.Contains(t, details, "price debe ser mayor o igual a 0")
	assert.Contains(t, details, "scheduledDate no puede estar en el pasado")
	assert.Contains(t, details, "status debe ser uno de: new, won, lost")
	assert.Contains(t, details, "address.city es obligatorio")
	assert.Contains(t, details, "address.postalCode debe ser un código postal válido")
}

func TestValidator_FutureAcceptsToday(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	v := validation.NewWithClock(func() time.Time { return now })
	earlierToday := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	s := validSample()
	s.Scheduled = &earlierToday
	assert.NoError(t, v.Struct(s))
}

func TestResult(t *testing.T) {
	assert.NoError(t, validation.Result(nil))
	err := validation.Result([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, domain.DetailsOf(err))
}
