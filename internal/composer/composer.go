// Package composer is the client side of the intake pipeline: it owns
// the mutable item list, compresses the optional photo, flattens
// everything into the multipart payload and performs the submission.
package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/domain/ports"
	"solicitacao-compras/internal/form"
)

var (
	// ErrLastItem rejects removing the only remaining row; the list
	// never becomes empty.
	ErrLastItem = errors.New("a request keeps at least one item row")
	// ErrSubmitInFlight rejects a Submit while another is outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrIndexOutOfRange rejects edits outside the current list.
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// genericFailure mirrors the fallback the browser client shows when
// the server response carries no message.
const genericFailure = "Algo deu errado."

// ItemField selects which half of a row EditItem changes.
type ItemField string

const (
	ItemDescription ItemField = "servico"
	ItemQuantity    ItemField = "quantidade"
)

// StatusKind is the submission tri-state.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusSubmitting
	StatusSettled
)

// Status reports where the last (or current) submission stands.
type Status struct {
	Kind    StatusKind
	Success bool
	Message string
}

// Fields are the scalar form values snapshot at submit time.
type Fields struct {
	Date          string
	Sector        string
	RequestedBy   string
	Urgency       string
	Justification string
	CcEmail       string
}

// Composer owns the ordered item list and the submit pipeline.
type Composer struct {
	endpoint string
	client   *http.Client
	logger   ports.Logger

	mu     sync.Mutex
	items  []model.LineItem
	status Status
}

// New creates a Composer pointed at the intake endpoint, starting with
// a single blank item row.
func New(endpoint string, timeout time.Duration, logger ports.Logger) *Composer {
	return &Composer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		items:    []model.LineItem{{}},
		status:   Status{Kind: StatusIdle},
	}
}

// Items returns a snapshot of the current rows.
func (c *Composer) Items() []model.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Status returns the current submission status.
func (c *Composer) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// AddItem appends a blank row.
func (c *Composer) AddItem() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, model.LineItem{})
}

// RemoveItem deletes the row at index. The last remaining row cannot
// be removed.
func (c *Composer) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	if len(c.items) == 1 {
		return ErrLastItem
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// EditItem updates one half of the row at index in place.
func (c *Composer) EditItem(index int, field ItemField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	switch field {
	case ItemDescription:
		c.items[index].Description = value
	case ItemQuantity:
		c.items[index].Quantity = value
	default:
		return fmt.Errorf("unknown item field %q", field)
	}
	return nil
}

// Submit snapshots the form, compresses the optional photo, encodes
// the payload and posts it. It is not reentrant: a second call while
// one is outstanding returns ErrSubmitInFlight. On success the item
// list resets to its single blank row.
func (c *Composer) Submit(ctx context.Context, fields Fields, photoPath string) error {
	items, err := c.begin()
	if err != nil {
		return err
	}

	if fields.Urgency == "" {
		fields.Urgency = "Media"
	}

	photo, err := c.preparePhoto(ctx, photoPath)
	if err != nil {
		// Compression failed: abort before any network contact.
		c.settle(false, err.Error())
		return err
	}

	body, contentType, err := encodePayload(fields, items, photo)
	if err != nil {
		c.settle(false, err.Error())
		return err
	}

	message, err := c.post(ctx, body, contentType)
	if err != nil {
		c.settle(false, err.Error())
		return err
	}

	c.logger.Info(ctx, "submission accepted", "message", message)
	c.reset(message)
	return nil
}

// begin transitions idle/settled -> submitting and snapshots the rows.
func (c *Composer) begin() ([]model.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Kind == StatusSubmitting {
		return nil, ErrSubmitInFlight
	}
	c.status = Status{Kind: StatusSubmitting}
	items := make([]model.LineItem, len(c.items))
	copy(items, c.items)
	return items, nil
}

func (c *Composer) settle(success bool, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Status{Kind: StatusSettled, Success: success, Message: message}
}

func (c *Composer) reset(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Status{Kind: StatusSettled, Success: true, Message: message}
	c.items = []model.LineItem{{}}
}

// preparePhoto loads and compresses the attachment, if any. A missing
// path or an empty file yields no attachment.
func (c *Composer) preparePhoto(ctx context.Context, path string) (model.Attachment, error) {
	if path == "" {
		return model.Attachment{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return model.Attachment{}, nil
	}

	compressed, err := CompressImage(ctx, data)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("compress photo: %w", err)
	}

	return model.Attachment{Filename: jpegName(path), Data: compressed}, nil
}

// jpegName swaps the extension for .jpg; compression re-encodes
// every format as JPEG.
func jpegName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}

func encodePayload(fields Fields, items []model.LineItem, photo model.Attachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	scalars := map[string]string{
		form.FieldDate:          fields.Date,
		form.FieldSector:        fields.Sector,
		form.FieldRequestedBy:   fields.RequestedBy,
		form.FieldUrgency:       fields.Urgency,
		form.FieldJustification: fields.Justification,
		form.FieldCcEmail:       fields.CcEmail,
	}
	for key, value := range scalars {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("encode field %s: %w", key, err)
		}
	}

	if err := form.WriteItems(items, w); err != nil {
		return nil, "", fmt.Errorf("encode items: %w", err)
	}

	if photo.Present() {
		part, err := w.CreateFormFile(form.FieldPhoto, photo.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("encode photo: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, "", fmt.Errorf("encode photo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finish payload: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// post performs the single POST and interprets the JSON outcome.
func (c *Composer) post(ctx context.Context, body *bytes.Buffer, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	var outcome struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		outcome.Message = ""
	}

	if resp.StatusCode != http.StatusOK {
		if outcome.Message == "" {
			outcome.Message = genericFailure
		}
		return "", errors.New(outcome.Message)
	}
	return outcome.Message, nil
}
