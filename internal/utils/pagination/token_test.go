package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	c := Cursor{
		Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "b7f7a0d4-4a3e-4f39-9d0e-2b1c1c0f6a11",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "=")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, c.Date.Equal(decoded.Date))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	zero := Cursor{ID: "x"}
	decodedZero, err := DecodeToken(EncodeToken(zero))
	require.NoError(t, err)
	assert.True(t, decodedZero.Date.IsZero())
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	missingID := base64.RawURLEncoding.EncodeToString([]byte("2024-03-15T00:00:00Z|2024-03-15T00:00:00Z"))
	_, err = DecodeToken(missingID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|2024-03-15T00:00:00Z|id"))
	_, err = DecodeToken(badDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	badCreated := base64.RawURLEncoding.EncodeToString([]byte("2024-03-15T00:00:00Z|nope|id"))
	_, err = DecodeToken(badCreated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)
	cur := Cursor{Date: day, CreatedAt: at, ID: "m"}

	assert.True(t, cur.After(Cursor{Date: day.AddDate(0, 0, -1), CreatedAt: at, ID: "z"}))
	assert.False(t, cur.After(Cursor{Date: day.AddDate(0, 0, 1), CreatedAt: at, ID: "a"}))
	assert.True(t, cur.After(Cursor{Date: day, CreatedAt: at.Add(-time.Second), ID: "z"}))
	assert.True(t, cur.After(Cursor{Date: day, CreatedAt: at, ID: "a"}))
	assert.False(t, cur.After(Cursor{Date: day, CreatedAt: at, ID: "m"}))
}
