package notify

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pallicare/pallicare/internal/platform/line"
)

// webhookEvent is the subset of the LINE webhook payload we record.
type webhookEvent struct {
	Type    string `json:"type"`
	Message *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message,omitempty"`
	Source *struct {
		Type    string `json:"type"`
		UserID  string `json:"userId"`
		GroupID string `json:"groupId"`
	} `json:"source,omitempty"`
	ReplyToken string `json:"replyToken"`
	Timestamp  int64  `json:"timestamp"`
}

type webhookBody struct {
	Destination string         `json:"destination"`
	Events      []webhookEvent `json:"events"`
}

// WebhookHandler receives callbacks from the LINE platform. It must be
// mounted outside the authenticated API group: LINE proves itself with
// the request signature, not a bearer token.
type WebhookHandler struct {
	channelSecret string
	logger        zerolog.Logger
}

func NewWebhookHandler(channelSecret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{channelSecret: channelSecret, logger: logger}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/line/webhook", h.Receive)
}

// Receive verifies the signature before reading anything out of the
// payload. An invalid signature is rejected without processing.
func (h *WebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	signature := c.Request().Header.Get("X-Line-Signature")
	if !line.ValidateSignature(h.channelSecret, signature, body) {
		h.logger.Warn().Str("remote", c.RealIP()).Msg("rejected LINE webhook with bad signature")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}

	for _, ev := range payload.Events {
		entry := h.logger.Info().Str("event_type", ev.Type)
		if ev.Source != nil {
			entry = entry.Str("source_type", ev.Source.Type).Str("user_id", ev.Source.UserID)
		}
		if ev.Message != nil {
			entry = entry.Str("message_type", ev.Message.Type)
		}
		entry.Msg("LINE webhook event")
	}

	return c.NoContent(http.StatusOK)
}
