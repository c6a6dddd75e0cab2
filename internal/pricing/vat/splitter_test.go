package vat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSplit_NetBase(t *testing.T) {
	b := Split(dec("30.00"), dec("0.20"), false)

	assert.True(t, b.Net.Equal(dec("30.00")), "net %s", b.Net)
	assert.True(t, b.VatAmount.Equal(dec("6.00")), "vat %s", b.VatAmount)
	assert.True(t, b.Gross.Equal(dec("36.00")), "gross %s", b.Gross)
}

func TestSplit_GrossBase(t *testing.T) {
	b := Split(dec("36.00"), dec("0.20"), true)

	assert.True(t, b.Net.Equal(dec("30.00")), "net %s", b.Net)
	assert.True(t, b.VatAmount.Equal(dec("6.00")), "vat %s", b.VatAmount)
	assert.True(t, b.Gross.Equal(dec("36.00")), "gross %s", b.Gross)
}

func TestSplit_RoundingHalfUp(t *testing.T) {
	// The sub-cent base rounds half-up first: 0.125 -> 0.13, then
	// 0.13 * 0.20 = 0.026 -> vat rounds half-up to 0.03.
	b := Split(dec("0.125"), dec("0.20"), false)
	assert.True(t, b.Net.Equal(dec("0.13")), "net %s", b.Net)
	assert.True(t, b.VatAmount.Equal(dec("0.03")), "vat %s", b.VatAmount)
	assert.True(t, b.Gross.Equal(dec("0.16")), "gross %s", b.Gross)
}

func TestSplit_SubCentBaseNeverLeaks(t *testing.T) {
	// Bases with more than two decimals come out of area pricing
	// (e.g. 0.3111 sqm at 10.00/sqm). Every field must hold whole cents.
	b := Split(dec("3.111"), dec("0.20"), false)
	assert.True(t, b.Net.Equal(dec("3.11")), "net %s", b.Net)
	assert.True(t, b.VatAmount.Equal(dec("0.62")), "vat %s", b.VatAmount)
	assert.True(t, b.Gross.Equal(dec("3.73")), "gross %s", b.Gross)

	g := Split(dec("3.731"), dec("0.20"), true)
	assert.True(t, g.Gross.Equal(dec("3.73")), "gross %s", g.Gross)
	assert.True(t, g.Net.Equal(dec("3.11")), "net %s", g.Net)
	assert.True(t, g.Gross.Sub(g.Net).Equal(g.VatAmount), "vat %s", g.VatAmount)
}

func TestSplit_Invariant_GrossMinusNetIsVat(t *testing.T) {
	rates := []string{"0.07", "0.19", "0.20", "0.25"}
	bases := []string{"0.01", "1.00", "9.99", "10.01", "123.45", "999.99", "0.03"}

	for _, r := range rates {
		for _, base := range bases {
			for _, gross := range []bool{true, false} {
				b := Split(dec(base), dec(r), gross)
				require.True(t, b.Gross.Sub(b.Net).Equal(b.VatAmount),
					"base=%s rate=%s gross=%v: %s - %s != %s", base, r, gross, b.Gross, b.Net, b.VatAmount)
			}
		}
	}
}

func TestSplit_ZeroRate(t *testing.T) {
	b := Split(dec("42.00"), decimal.Zero, false)
	assert.True(t, b.VatAmount.IsZero())
	assert.True(t, b.Gross.Equal(b.Net))
}
