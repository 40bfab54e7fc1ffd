package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"ozon-radar/models"
)

func newTestTranslator(t *testing.T, handler http.HandlerFunc) *GoogleTranslator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newGoogleTranslator(srv.Client(), srv.URL, "zh-CN", rate.NewLimiter(rate.Inf, 1))
}

func TestGoogleTranslatorTranslate(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_a/single", r.URL.Path)
		assert.Equal(t, "zh-CN", r.URL.Query().Get("tl"))
		assert.Equal(t, "Сумка вязаная. Новая", r.URL.Query().Get("q"))
		fmt.Fprint(w, `[[["针织包。","Сумка вязаная.",null,null,1],["新","Новая",null,null,1]],null,"ru"]`)
	})

	out, err := tr.Translate(context.Background(), "Сумка вязаная. Новая")
	require.NoError(t, err)
	assert.Equal(t, "针织包。新", out)
}

func TestGoogleTranslatorFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<html>") }},
		{"empty", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `[]`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(t, tt.handler)
			_, err := tr.Translate(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrTranslationFailure))
		})
	}
}

func TestGoogleTranslatorBlankPassthrough(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("blank text must not hit the endpoint")
	})
	out, err := tr.Translate(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
}

type stubTranslator struct {
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	if strings.Contains(text, "fail") {
		return "", models.NewError(models.KindTranslationFailure, "boom")
	}
	return "T:" + text, nil
}

func TestTitleTranslatorFallbackAndCap(t *testing.T) {
	stub := &stubTranslator{}
	tt := NewTitleTranslator(stub, 3, newTestLogger())

	listings := []*models.Listing{
		{TitleOriginal: "one"},
		{TitleOriginal: "fail two"},
		{TitleOriginal: "three"},
		{TitleOriginal: "four"},
	}

	failures := tt.Apply(context.Background(), listings)

	assert.Equal(t, 1, failures)
	assert.Equal(t, 3, stub.calls)
	assert.Equal(t, "T:one", listings[0].TitleLocal)
	assert.Equal(t, "fail two", listings[1].TitleLocal)
	assert.Equal(t, "T:three", listings[2].TitleLocal)
	assert.Equal(t, "four", listings[3].TitleLocal)
}

func TestTitleTranslatorNil(t *testing.T) {
	tt := NewTitleTranslator(nil, 0, newTestLogger())
	listings := []*models.Listing{{TitleOriginal: "one"}}

	assert.Equal(t, 0, tt.Apply(context.Background(), listings))
	assert.Equal(t, "one", listings[0].TitleLocal)
}
