package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solicitacao-compras/internal/adapter/logging"
	"solicitacao-compras/internal/config"
	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/form"
	"solicitacao-compras/internal/usecase"
)

type fakeMailer struct {
	sent []model.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, email model.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakeNotifier struct {
	sent []model.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n model.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func newTestServer(mailer *fakeMailer, notifier *fakeNotifier) *httptest.Server {
	cfg := &config.Config{MaxUploadBytes: 32 << 20}
	logger := logging.New(nil)
	var sub *usecase.Submission
	if notifier != nil {
		sub = usecase.NewSubmission(mailer, notifier, logger)
	} else {
		sub = usecase.NewSubmission(mailer, nil, logger)
	}
	return httptest.NewServer(New(cfg, sub, logger).Handler())
}

type submission struct {
	scalars map[string]string
	items   []model.LineItem
	photo   string
	data    []byte
}

func encodeSubmission(t *testing.T, sub submission) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range sub.scalars {
		require.NoError(t, w.WriteField(key, value))
	}
	require.NoError(t, form.WriteItems(sub.items, w))
	if sub.photo != "" {
		part, err := w.CreateFormFile(form.FieldPhoto, sub.photo)
		require.NoError(t, err)
		_, err = part.Write(sub.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["message"]
}

func TestHandleSubmissionWrongMethod(t *testing.T) {
	srv := newTestServer(&fakeMailer{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/solicitacao")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Método não permitido", decodeMessage(t, resp))
}

func TestHandleSubmissionSuccess(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	srv := newTestServer(mailer, notifier)
	defer srv.Close()

	body, contentType := encodeSubmission(t, submission{
		scalars: map[string]string{
			form.FieldDate:          "2026-08-29",
			form.FieldSector:        "TI",
			form.FieldRequestedBy:   "Ana",
			form.FieldUrgency:       "Alta",
			form.FieldJustification: "Monitor queimado",
		},
		items: []model.LineItem{
			{Description: "Paper", Quantity: "10"},
			{Description: "", Quantity: "5"},
		},
	})

	resp, err := http.Post(srv.URL+"/api/solicitacao", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Solicitação enviada com sucesso!", decodeMessage(t, resp))

	// The empty-description row is dropped: one table row, two cells.
	require.Len(t, mailer.sent, 1)
	html := mailer.sent[0].HTML
	assert.Equal(t, 2, strings.Count(html, "<td"))
	assert.Contains(t, html, "Paper")
	assert.NotContains(t, html, ">5<")

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifierField(notifier.sent[0], "Itens"), "- Paper: 10")
}

func notifierField(n model.Notification, name string) string {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestHandleSubmissionZeroSizePhoto(t *testing.T) {
	mailer := &fakeMailer{}
	srv := newTestServer(mailer, nil)
	defer srv.Close()

	body, contentType := encodeSubmission(t, submission{
		scalars: map[string]string{form.FieldSector: "RH"},
		items:   []model.LineItem{{Description: "Café", Quantity: "5"}},
		photo:   "vazio.jpg",
		data:    nil,
	})

	resp, err := http.Post(srv.URL+"/api/solicitacao", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mailer.sent, 1)
	assert.Empty(t, mailer.sent[0].Attachments)
}

func TestHandleSubmissionWithPhoto(t *testing.T) {
	mailer := &fakeMailer{}
	srv := newTestServer(mailer, nil)
	defer srv.Close()

	body, contentType := encodeSubmission(t, submission{
		scalars: map[string]string{form.FieldSector: "RH"},
		items:   []model.LineItem{{Description: "Café", Quantity: "5"}},
		photo:   "foto.jpg",
		data:    []byte{0xFF, 0xD8, 0xFF, 0xE0},
	})

	resp, err := http.Post(srv.URL+"/api/solicitacao", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mailer.sent, 1)
	require.Len(t, mailer.sent[0].Attachments, 1)
	assert.Equal(t, "foto.jpg", mailer.sent[0].Attachments[0].Filename)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, mailer.sent[0].Attachments[0].Data)
}

func TestHandleSubmissionMailFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp unreachable")}
	srv := newTestServer(mailer, nil)
	defer srv.Close()

	body, contentType := encodeSubmission(t, submission{
		scalars: map[string]string{form.FieldSector: "TI"},
		items:   []model.LineItem{{Description: "Toner", Quantity: "1"}},
	})

	resp, err := http.Post(srv.URL+"/api/solicitacao", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decodeMessage(t, resp), "smtp unreachable")
}

func TestHandleSubmissionMalformedPayload(t *testing.T) {
	srv := newTestServer(&fakeMailer{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/solicitacao", "multipart/form-data; boundary=xyz",
		strings.NewReader("this is not multipart"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, decodeMessage(t, resp))
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&fakeMailer{}, nil)
	defer srv.Close()

	for _, path := range []string{"/live", "/ready", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
