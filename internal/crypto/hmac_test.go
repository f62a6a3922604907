package crypto

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	auth := &HMACAuth{Key: "key", Secret: "secret"}
	require.Equal(t,
		"1818289c94572e5c16c420cb589483e10ab54285dd719c4d1ee2669acfe8bcc5",
		auth.Sign("symbol=IBTC_USDT"),
	)
}

func TestSignDeterministic(t *testing.T) {
	auth := &HMACAuth{Key: "key", Secret: "secret"}

	params := url.Values{}
	params.Set("symbol", "IBTC_USDT")
	params.Set("list", `[{"type":"buy"}]`)
	query := params.Encode()

	first := auth.HeadersAt(query, 1700000000)
	second := auth.HeadersAt(query, 1700000000)
	require.Equal(t, first, second)
	require.Equal(t, "key", first[HeaderKey])
	require.Equal(t, "1700000000", first[HeaderTimestamp])
}

func TestSignChangesWithParams(t *testing.T) {
	auth := &HMACAuth{Key: "key", Secret: "secret"}

	base := auth.Sign("symbol=IBTC_USDT")
	require.NotEqual(t, base, auth.Sign("symbol=USDT_IBTC"))
	require.NotEqual(t, base, auth.Sign("symbol=IBTC_USDT&extra=1"))

	other := &HMACAuth{Key: "key", Secret: "other-secret"}
	require.NotEqual(t, base, other.Sign("symbol=IBTC_USDT"))
}

func TestSignIsLowercaseHex(t *testing.T) {
	auth := &HMACAuth{Key: "key", Secret: "secret"}
	sig := auth.Sign("anything")
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), sig)
}

func TestConfigured(t *testing.T) {
	require.False(t, (&HMACAuth{}).Configured())
	require.False(t, (&HMACAuth{Key: "key"}).Configured())
	require.False(t, (&HMACAuth{Secret: "secret"}).Configured())
	require.True(t, (&HMACAuth{Key: "key", Secret: "secret"}).Configured())
}

func TestStringRedactsSecrets(t *testing.T) {
	auth := &HMACAuth{Key: "key-12345678", Secret: "secret-12345678"}
	s := auth.String()
	require.NotContains(t, s, "12345678")
	require.Contains(t, s, "****")
}
