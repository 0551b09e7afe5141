package formato

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatos(t *testing.T) {
	assert.Equal(t, "12.345", Inteiro(12345))
	assert.Equal(t, "R$ 1.234,56", Moeda(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 0,0500", CustoPagina(decimal.RequireFromString("0.05")))
	assert.Equal(t, "12,5%", Percentual(decimal.RequireFromString("12.5")))
	assert.Equal(t, "31/03/2024", Data(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "01/02/2024", DiaISO("2024-02-01"))
	assert.Equal(t, "lixo", DiaISO("lixo"))
	assert.Empty(t, Data(time.Time{}))
}
