package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	f := newFlasher("secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	f.Add(w, r, "success", "first")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(cookies[0])
	f.Add(w, r, "danger", "second")
	cookies = w.Result().Cookies()

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	got := f.Pop(w, r)
	require.Equal(t, []Flash{{"success", "first"}, {"danger", "second"}}, got)

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)
}

func TestFlashRejectsTampering(t *testing.T) {
	f := newFlasher("secret")
	value, err := f.encode([]Flash{{"success", "hi"}})
	require.NoError(t, err)
	require.Len(t, f.decode(value), 1)

	payload, sig, _ := strings.Cut(value, ".")
	forged, err := f.encode([]Flash{{"danger", "pwned"}})
	require.NoError(t, err)
	forgedPayload, _, _ := strings.Cut(forged, ".")

	require.Nil(t, f.decode(forgedPayload+"."+sig))
	require.Nil(t, f.decode(payload))
	require.Nil(t, f.decode("garbage.value"))
	require.Nil(t, newFlasher("other").decode(value))
}

func TestPopWithoutCookie(t *testing.T) {
	f := newFlasher("secret")
	w := httptest.NewRecorder()
	require.Nil(t, f.Pop(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Empty(t, w.Result().Cookies())
}
