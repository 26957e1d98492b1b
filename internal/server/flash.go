package server

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const flashCookie = "flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// flasher keeps pending messages in a cookie signed with a keyed BLAKE2b MAC.
type flasher struct {
	key [32]byte
}

func newFlasher(secret string) *flasher {
	return &flasher{key: blake2b.Sum256([]byte(secret))}
}

func (f *flasher) mac(payload string) []byte {
	h, err := blake2b.New256(f.key[:])
	if err != nil {
		// only reachable with a key longer than 64 bytes
		panic(err)
	}
	h.Write([]byte(payload))
	return h.Sum(nil)
}

func (f *flasher) encode(flashes []Flash) (string, error) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + base64.RawURLEncoding.EncodeToString(f.mac(payload)), nil
}

// decode returns nil for anything that is malformed or fails verification.
func (f *flasher) decode(value string) []Flash {
	payload, sig, ok := strings.Cut(value, ".")
	if !ok {
		return nil
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || subtle.ConstantTimeCompare(got, f.mac(payload)) != 1 {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// Add queues a message behind any still pending on the request.
func (f *flasher) Add(w http.ResponseWriter, r *http.Request, category, message string) {
	var flashes []Flash
	if c, err := r.Cookie(flashCookie); err == nil {
		flashes = f.decode(c.Value)
	}
	flashes = append(flashes, Flash{Category: category, Message: message})
	value, err := f.encode(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: value, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Pop returns pending messages and clears the cookie.
func (f *flasher) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	return f.decode(c.Value)
}
