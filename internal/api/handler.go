package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-faster/jx"

	"subtracker/internal/stories/renewal"
)

const maxBodySize = 64 << 10

type Renewal interface {
	RunOnce(ctx context.Context) (renewal.Report, error)
	SendTestNotification(ctx context.Context, message string) bool
}

type Handler struct {
	renewal Renewal
	logger  *slog.Logger
}

func NewHandler(renewal Renewal, logger *slog.Logger) *Handler {
	return &Handler{renewal: renewal, logger: logger}
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/notifications/check", h.check)
	mux.HandleFunc("POST /api/notifications/test", h.test)
	return mux
}

// check runs both passes synchronously and reports what they did.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	report, err := h.renewal.RunOnce(r.Context())

	var e jx.Encoder
	e.ObjStart()
	e.Field("success", func(e *jx.Encoder) { e.Bool(err == nil) })
	if err != nil {
		e.Field("error", func(e *jx.Encoder) { e.Str(err.Error()) })
	}
	e.Field("reminder", func(e *jx.Encoder) {
		e.ObjStart()
		e.Field("candidates", func(e *jx.Encoder) { e.Int(report.Reminder.Candidates) })
		e.Field("due", func(e *jx.Encoder) { e.Int(report.Reminder.Due) })
		e.Field("sent", func(e *jx.Encoder) { e.Int(report.Reminder.Sent) })
		e.Field("failed", func(e *jx.Encoder) { e.Int(report.Reminder.Failed) })
		e.ObjEnd()
	})
	e.Field("rollover", func(e *jx.Encoder) {
		e.ObjStart()
		e.Field("overdue", func(e *jx.Encoder) { e.Int(report.Rollover.Overdue) })
		e.Field("advanced", func(e *jx.Encoder) { e.Int(report.Rollover.Advanced) })
		e.Field("skipped", func(e *jx.Encoder) { e.Int(report.Rollover.Skipped) })
		e.ObjEnd()
	})
	e.ObjEnd()

	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	h.write(w, status, e.Bytes())
}

func (h *Handler) test(w http.ResponseWriter, r *http.Request) {
	message, err := readMessage(r.Body)
	if err != nil {
		h.logger.Warn("Bad test notification request", "error", err)
		var e jx.Encoder
		e.ObjStart()
		e.Field("success", func(e *jx.Encoder) { e.Bool(false) })
		e.Field("error", func(e *jx.Encoder) { e.Str("invalid request body") })
		e.ObjEnd()
		h.write(w, http.StatusBadRequest, e.Bytes())
		return
	}

	ok := h.renewal.SendTestNotification(r.Context(), message)

	var e jx.Encoder
	e.ObjStart()
	e.Field("success", func(e *jx.Encoder) { e.Bool(ok) })
	e.ObjEnd()
	h.write(w, http.StatusOK, e.Bytes())
}

func (h *Handler) write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("Failed to write response", "error", err)
	}
}

// readMessage extracts the optional "message" field. An empty body is allowed.
func readMessage(body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	var message string
	err = jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "message" {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		message = v
		return nil
	})
	return message, err
}
