package mirror

import (
	"encoding/json"
	"testing"
	"time"

	"groundops-service/internal/domain/entity"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime_MillisecondUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	ts := time.Date(2025, 3, 14, 7, 30, 15, 123456789, loc)

	assert.Equal(t, "2025-03-14T10:30:15.123Z", FormatTime(ts))
}

func TestProcessCodec_RoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 14, 10, 30, 0, 987654321, time.UTC)
	finalized := created.Add(2 * time.Hour)
	in := []entity.Process{
		{
			Number: "MCZAD17656", Type: entity.ProcessAHL, Status: entity.StatusFinalized,
			Customer: "Maria", PNR: "XK9Q2L", Bag: "Mala preta",
			CreatedAt: created, FinalizedAt: &finalized,
		},
		{
			Number: "MCZAD17657", Type: entity.ProcessDPR, Status: entity.StatusOpen,
			Damage: "Roda quebrada", Solution: entity.SolutionRepair, CreatedAt: created,
		},
	}

	codec := ProcessCodec()
	doc, err := codec.Encode(in)
	require.NoError(t, err)
	out, err := codec.Decode(doc)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "MCZAD17656", out[0].Number)
	assert.Equal(t, created.Truncate(time.Millisecond), out[0].CreatedAt)
	require.NotNil(t, out[0].FinalizedAt)
	assert.True(t, finalized.Truncate(time.Millisecond).Equal(*out[0].FinalizedAt))
	assert.Nil(t, out[1].FinalizedAt)
	assert.Equal(t, entity.SolutionRepair, out[1].Solution)
}

func TestPaymentCodec_WireShape(t *testing.T) {
	doc, err := PaymentCodec().Encode([]entity.Payment{{
		ID: "p1", FlightCode: "AD4518", Amount: 150.5, Currency: entity.CurrencyBRL,
		Method: entity.MethodPIX, CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}})
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "AD4518", raw[0]["vooCodigo"])
	assert.Equal(t, "PIX", raw[0]["forma"])
	assert.Equal(t, "2025-01-02T03:04:05.000Z", raw[0]["criadoEm"])
	assert.NotContains(t, raw[0], "processoNumero")
}

func TestCodec_DecodeSkipsBadEntries(t *testing.T) {
	doc := []byte(`[
		null,
		{"id":"ok","valor":10,"moeda":"BRL","forma":"PIX","criadoEm":"2025-01-02T03:04:05.000Z"},
		{"id":"bad-date","valor":10,"moeda":"BRL","forma":"PIX","criadoEm":"yesterday"},
		"not an object"
	]`)

	out, err := PaymentCodec().Decode(doc)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].ID)
}

func TestProcessCodec_DecodeSkipsUnknownTypeOrStatus(t *testing.T) {
	doc := []byte(`[
		{"processNumber":"MCZAD1","tipo":"AHL","status":"aberto","criadoEm":"2025-01-02T03:04:05.000Z"},
		{"processNumber":"MCZAD2","tipo":"XYZ","status":"aberto","criadoEm":"2025-01-02T03:04:05.000Z"},
		{"processNumber":"MCZAD3","tipo":"OHD","status":"arquivado","criadoEm":"2025-01-02T03:04:05.000Z"},
		{"processNumber":"MCZAD4","status":"aberto","criadoEm":"2025-01-02T03:04:05.000Z"},
		{"processNumber":"MCZAD5","tipo":"DPR","status":"observação","criadoEm":"2025-01-02T03:04:05.000Z"}
	]`)

	out, err := ProcessCodec().Decode(doc)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "MCZAD1", out[0].Number)
	assert.Equal(t, "MCZAD5", out[1].Number)
	assert.Equal(t, entity.StatusUnderObservation, out[1].Status)
}

func TestCodec_DecodeNonArray(t *testing.T) {
	for _, doc := range [][]byte{nil, []byte("null"), []byte(`{"a":1}`), []byte("garbage")} {
		out, err := FlightCodec().Decode(doc)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

// Property: decode(encode(list)) keeps keys, fields and dates to the millisecond
func TestFlightCodec_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	codec := FlightCodec()

	properties.Property("round trip preserves flights", prop.ForAll(
		func(codes []string, offsets []int64) bool {
			in := make([]entity.Flight, 0, len(codes))
			for i, code := range codes {
				if code == "" {
					continue
				}
				var off int64
				if i < len(offsets) {
					off = offsets[i]
				}
				in = append(in, entity.Flight{
					Code:   code,
					Origin: "REC",
					ETA:    base.Add(time.Duration(off)),
				})
			}

			doc, err := codec.Encode(in)
			if err != nil {
				return false
			}
			out, err := codec.Decode(doc)
			if err != nil || len(out) != len(in) {
				return false
			}
			for i := range in {
				if out[i].Code != in[i].Code || out[i].Origin != in[i].Origin {
					return false
				}
				if !out[i].ETA.Equal(in[i].ETA.Truncate(time.Millisecond)) {
					return false
				}
				if out[i].Key() != entity.FlightKey(in[i].Code, in[i].ETA) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.Int64Range(0, int64(365*24*time.Hour))),
	))

	properties.TestingRun(t)
}
