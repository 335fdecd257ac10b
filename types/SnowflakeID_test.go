package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnowflakeIDMarshalsAsString(t *testing.T) {
	id := SnowflakeID(1829473629384729600)

	out, err := json.Marshal(struct {
		ID SnowflakeID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1829473629384729600"}`, string(out))
}

func TestSnowflakeIDUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromString SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromString))
	require.Equal(t, SnowflakeID(42), fromString)

	var fromNumber SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	require.Equal(t, SnowflakeID(42), fromNumber)

	var bad SnowflakeID
	require.Error(t, json.Unmarshal([]byte(`"forty-two"`), &bad))
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestSnowflakeIDScan(t *testing.T) {
	var id SnowflakeID

	require.NoError(t, id.Scan(int64(7)))
	require.Equal(t, SnowflakeID(7), id)

	require.NoError(t, id.Scan([]byte("8")))
	require.Equal(t, SnowflakeID(8), id)

	require.NoError(t, id.Scan(nil))
	require.Equal(t, SnowflakeID(0), id)

	require.Error(t, id.Scan(3.14))
}
