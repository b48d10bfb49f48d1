package model

import (
	"encoding/json"
	"testing"
	"time"

	"trip-planner/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantCode xerrors.ErrorCode
		wantZero bool
	}{
		{name: "both empty", wantZero: true},
		{name: "only from", from: "2026-07-01"},
		{name: "same day", from: "2026-07-01", to: "2026-07-01"},
		{name: "ordered", from: "2026-07-01", to: "2026-07-09"},
		{name: "reversed", from: "2026-07-09", to: "2026-07-01", wantCode: xerrors.CodeInvalidDateRange},
		{name: "bad layout", from: "07/01/2026", wantCode: xerrors.CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.True(t, xerrors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantZero, r.IsZero())
			assert.Equal(t, tt.from, r.FromString())
			assert.Equal(t, tt.to, r.ToString())
		})
	}
}

func TestSearchRequest_WireFormat(t *testing.T) {
	fields := SearchFields{
		Transportation: TransportRent,
		Hotel:          HotelThreeStar,
		Location:       "Montreal, Canada",
		Budget:         "2000$",
		Traveller:      TravellerTwo,
	}
	dates := DateRange{From: date("2026-07-01"), To: date("2026-07-09")}

	req := NewSearchRequest(fields, dates)
	data, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"transportation": "rent",
		"hotel": "threeStar",
		"location": "Montreal, Canada",
		"budget": "2000$",
		"traveller": "two",
		"startDate": "2026-07-01T00:00:00Z",
		"endDate": "2026-07-09T00:00:00Z"
	}`, string(data))
}

func TestSearchRequest_OmitsAbsentDates(t *testing.T) {
	req := NewSearchRequest(SearchFields{Transportation: TransportRent}, DateRange{})
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "startDate")
	assert.NotContains(t, raw, "endDate")
	assert.NotContains(t, raw, "date")
}

func TestNewSearchRequest_CopiesDates(t *testing.T) {
	from := date("2026-07-01")
	req := NewSearchRequest(SearchFields{}, DateRange{From: from})

	*from = from.AddDate(0, 0, 3)

	assert.Equal(t, "2026-07-01", req.StartDate.Format(DateLayout))
}

func TestSuggestionState_Constructors(t *testing.T) {
	now := time.Now()

	idle := Idle()
	assert.Equal(t, StatusIdle, idle.Status())
	_, ok := idle.Suggestion()
	assert.False(t, ok)

	loading := Loading("req-1", now)
	assert.True(t, loading.IsLoading())
	assert.False(t, loading.IsSettled())
	_, ok = loading.Suggestion()
	assert.False(t, ok, "loading must never expose suggestion text")

	done := Succeeded("req-1", "Day 1: Old Port", now)
	text, ok := done.Suggestion()
	assert.True(t, ok)
	assert.Equal(t, "Day 1: Old Port", text)
	_, ok = done.FailureCode()
	assert.False(t, ok)

	failed := Failed("req-1", xerrors.CodeExternalServiceError, now)
	code, ok := failed.FailureCode()
	assert.True(t, ok)
	assert.Equal(t, xerrors.CodeExternalServiceError, code)
	_, ok = failed.Suggestion()
	assert.False(t, ok)
}

func TestSuggestionState_ZeroValueIsIdle(t *testing.T) {
	var s SuggestionState
	assert.Equal(t, StatusIdle, s.Status())
}

func TestSuggestionState_JSON(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	states := []SuggestionState{
		Idle(),
		Loading("req-1", now),
		Succeeded("req-2", "Visit the Old Port", now),
		Failed("req-3", xerrors.CodeExternalServiceError, now),
	}

	for _, st := range states {
		t.Run(string(st.Status()), func(t *testing.T) {
			data, err := json.Marshal(st)
			require.NoError(t, err)

			var got SuggestionState
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, st.Status(), got.Status())
			assert.Equal(t, st.RequestID(), got.RequestID())
			wantText, _ := st.Suggestion()
			gotText, _ := got.Suggestion()
			assert.Equal(t, wantText, gotText)
		})
	}
}

func TestSuggestionState_UnmarshalRejectsInvalid(t *testing.T) {
	cases := []string{
		`{"status":"loading"}`,
		`{"status":"succeeded","suggestion":"x"}`,
		`{"status":"exploded","request_id":"r"}`,
	}
	for _, c := range cases {
		var s SuggestionState
		assert.Error(t, json.Unmarshal([]byte(c), &s), c)
	}
}

func TestTripContext_SettleGuardsStaleResults(t *testing.T) {
	now := time.Now()
	tc := NewTripContext("sid", now)

	tc.Begin("req-1", SearchRequest{Location: "Paris"}, now)
	tc.Begin("req-2", SearchRequest{Location: "Rome"}, now)

	assert.False(t, tc.Settle(Succeeded("req-1", "Paris plan", now), now), "superseded result must be discarded")
	assert.True(t, tc.Suggestion.IsLoading())
	assert.Equal(t, "req-2", tc.Suggestion.RequestID())

	assert.True(t, tc.Settle(Succeeded("req-2", "Rome plan", now), now))
	text, ok := tc.Suggestion.Suggestion()
	require.True(t, ok)
	assert.Equal(t, "Rome plan", text)
	assert.Equal(t, "Rome", tc.LastRequest.Location)

	// 已结算后的重复结果同样丢弃
	assert.False(t, tc.Settle(Failed("req-2", xerrors.CodeExternalServiceError, now), now))
	_, ok = tc.Suggestion.Suggestion()
	assert.True(t, ok)
}

func TestTripContext_SettleRejectsNonTerminalState(t *testing.T) {
	now := time.Now()
	tc := NewTripContext("sid", now)
	tc.Begin("req-1", SearchRequest{}, now)

	assert.False(t, tc.Settle(Loading("req-1", now), now))
	assert.False(t, tc.Settle(Idle(), now))
}

func TestTripContext_JSON(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	tc := NewTripContext("sid-1", now)
	tc.SetDateRange(DateRange{From: date("2026-07-01"), To: date("2026-07-03")}, now)
	tc.Begin("req-1", SearchRequest{Location: "Lisbon"}, now)

	data, err := json.Marshal(tc)
	require.NoError(t, err)

	var got TripContext
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "sid-1", got.SessionID)
	assert.Equal(t, "2026-07-03", got.DateRange.ToString())
	assert.True(t, got.Suggestion.IsLoading())
	assert.Equal(t, "Lisbon", got.LastRequest.Location)
}

func TestEnums(t *testing.T) {
	tr, ok := ParseTransportation("personalVehical")
	assert.True(t, ok)
	assert.Equal(t, TransportPersonalVehicle, tr)

	_, ok = ParseTransportation("teleport")
	assert.False(t, ok)

	assert.Equal(t, 5, HotelFiveStar.Stars())
	assert.Equal(t, 0, HotelTier("sevenStar").Stars())
	assert.Equal(t, 6, TravellerSix.Int())
	assert.NotEmpty(t, TransportRent.LabelKey())
	assert.NotEmpty(t, HotelOneStar.LabelKey())
}
