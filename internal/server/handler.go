package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/form"
	"solicitacao-compras/internal/metrics"
)

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	ctx := r.Context()
	requestID := uuid.NewString()
	start := time.Now()
	metrics.SubmissionsReceived.Inc()
	defer func() {
		metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	}()

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.logger.Error(ctx, "failed to parse multipart payload", "request_id", requestID, "error", err)
		metrics.SubmissionsFailed.Inc()
		respondJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := form.DecodeRequest(form.Values(r.MultipartForm.Value))

	photo, err := readPhoto(r)
	if err != nil {
		s.logger.Error(ctx, "failed to read photo upload", "request_id", requestID, "error", err)
		metrics.SubmissionsFailed.Inc()
		respondJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Photo = photo

	s.logger.Info(ctx, "submission received",
		"request_id", requestID,
		"sector", req.Sector,
		"items", len(req.Items),
		"has_photo", req.Photo.Present(),
	)

	if err := s.submission.Submit(ctx, req); err != nil {
		metrics.SubmissionsFailed.Inc()
		respondJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, msgSuccess)
}

// readPhoto pulls the optional attachment out of the parsed form.
// A missing or zero-size upload yields an absent attachment.
func readPhoto(r *http.Request) (model.Attachment, error) {
	headers := r.MultipartForm.File[form.FieldPhoto]
	if len(headers) == 0 {
		return model.Attachment{}, nil
	}

	header := headers[0]
	if header.Size == 0 {
		return model.Attachment{}, nil
	}

	file, err := header.Open()
	if err != nil {
		return model.Attachment{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}

	return model.Attachment{Filename: header.Filename, Data: data}, nil
}
