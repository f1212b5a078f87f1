package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("1990-07-01")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-07-01"`, string(b))

	var decoded Date
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`1990`), &decoded))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2023, 11, 5, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2023-11-05", d.String())

	require.NoError(t, d.Scan("2023-11-06"))
	assert.Equal(t, "2023-11-06", d.String())

	assert.Error(t, d.Scan(42))
}
