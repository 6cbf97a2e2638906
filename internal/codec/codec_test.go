package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpiq/internal/model"
)

func TestDecode(t *testing.T) {
	segments, err := Decode("CUUR0000SA0")
	require.NoError(t, err)
	assert.Equal(t, Segments{
		Survey:      "CU",
		Seasonal:    "U",
		Periodicity: "R",
		Area:        "0000",
		Item:        "SA0",
	}, segments)
}

func TestDecodeLongItemCode(t *testing.T) {
	segments, err := Decode("CUSR0000SA0L1E")
	require.NoError(t, err)
	assert.Equal(t, "SA0L1E", segments.Item)
	assert.Equal(t, "S", segments.Seasonal)
}

func TestDecodeTooShort(t *testing.T) {
	_, err := Decode("CUUR0000")
	require.Error(t, err)

	_, err = Decode("")
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, id := range []string{"CUUR0000SA0", "CWUR0000SA0", "CUSR0000SA0L1E"} {
		segments, err := Decode(id)
		require.NoError(t, err)
		assert.Equal(t, id, segments.ID())
	}
}

func TestSurveyTable(t *testing.T) {
	code, err := SurveyCode("All urban consumers")
	require.NoError(t, err)
	assert.Equal(t, "CU", code)

	code, err = SurveyCode("Urban wage earners and clerical workers")
	require.NoError(t, err)
	assert.Equal(t, "CW", code)

	_, err = SurveyCode("All rural consumers")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "surveys")
	assert.Contains(t, err.Error(), "All rural consumers")

	name, err := SurveyName("CU")
	require.NoError(t, err)
	assert.Equal(t, "All urban consumers", name)

	_, err = SurveyName("XX")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSeasonalTable(t *testing.T) {
	assert.Equal(t, "S", SeasonalCode(true))
	assert.Equal(t, "U", SeasonalCode(false))

	adjusted, err := SeasonallyAdjusted("S")
	require.NoError(t, err)
	assert.True(t, adjusted)

	adjusted, err = SeasonallyAdjusted("U")
	require.NoError(t, err)
	assert.False(t, adjusted)

	_, err = SeasonallyAdjusted("X")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
