package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/empathybot/internal/chat"
	"github.com/spacesedan/empathybot/internal/models"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

const USER_MESSAGE_FIELD = "user_message"

type pageData struct {
	Title string
}

func (s *Server) handleIndex(c echo.Context) error {
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "index.html", pageData{Title: PAGE_TITLE}); err != nil {
		slog.Error("[Server] template execution failed", "path", c.Request().URL.Path, "error", err)
		return c.String(http.StatusInternalServerError, "Failed to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// handleGetResponse reads user_message from the form body and answers with
// a plain-text reply. A present but empty field is a valid message; a
// missing field is rejected before anything is classified.
func (s *Server) handleGetResponse(c echo.Context) error {
	if _, err := c.FormParams(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}

	values, ok := c.Request().PostForm[USER_MESSAGE_FIELD]
	if !ok || len(values) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "missing form field: "+USER_MESSAGE_FIELD)
	}

	reply := s.responder.Respond(values[0])
	s.record(c, reply)

	return c.String(http.StatusOK, reply.Text)
}

// record feeds the classification outcome to the tally, event stream and
// metrics. Failures are logged and never affect the reply.
func (s *Server) record(c echo.Context, reply chat.Reply) {
	ctx := c.Request().Context()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	if err := s.tally.Increment(ctx, reply.Category); err != nil {
		slog.Warn("[Server] failed to update tally", "request_id", requestID, "error", err)
	}

	result := sentiment.Result{Score: reply.Score, Category: reply.Category}
	event := models.NewClassificationEvent(result, requestID, time.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("[Server] failed to publish classification event", "request_id", requestID, "error", err)
	}

	if s.replyMetrics != nil {
		s.replyMetrics.Observe(reply)
	}
}

func (s *Server) handleStats(c echo.Context) error {
	snap, err := s.tally.Today(c.Request().Context())
	if err != nil {
		slog.Warn("[Server] failed to read tally", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "stats unavailable")
	}
	return c.JSON(http.StatusOK, snap)
}
