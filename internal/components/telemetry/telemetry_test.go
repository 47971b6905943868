package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("assembler", NewScopedAPI("codex", rec))

	scoped.ReportBroken("resolve-faction", "SM")
	scoped.ReportWarning("resolve-leader", "CAP", "GONE")
	scoped.ReportDebug("allocated", 3)
	scoped.ReportCount("factions", 2)

	broken := rec.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "codex.assembler.resolve-faction", broken[0].ID)
	require.Equal(t, []any{"SM"}, broken[0].Params)

	require.True(t, rec.Has(KindWarning, "assembler.resolve-leader"))
	require.False(t, rec.Has(KindBroken, "resolve-leader"))
	require.Equal(t, "codex: assembler: allocated", rec.Reports(KindDebug)[0].ID)
	require.Equal(t, int64(2), rec.Reports(KindCount)[0].Count)
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())

	debug := rec.Reports(KindDebug)
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].ID)
	require.Equal(t, report_resty_response, debug[1].ID)
	require.Empty(t, rec.Reports(KindBroken))
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().Get(url)
	require.Error(t, err)
	require.True(t, rec.Has(KindBroken, report_resty_response))
}
