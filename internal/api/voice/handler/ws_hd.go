package voiceHandler

import (
	"errors"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/middleware"
	contextPkg "BrailleVoice/pkg/context"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// handleWebSocket streams transcripts from a page. A connection is bound to
// the session of its first message; later messages without a session id use
// it.
func (h *VoiceHandler) handleWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	baseCtx := contextPkg.WithRequestID(context.Background(), requestID)

	h.metrics.WebsocketsActive.Inc()
	defer h.metrics.WebsocketsActive.Dec()

	h.log.WithFields(logrus.Fields{"request_id": requestID}).Info("Voice WebSocket client connected")
	defer h.log.WithFields(logrus.Fields{"request_id": requestID}).Info("Voice WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	sessionID := ""

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Voice WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var msg voice.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			if !h.writeWS(c, voice.WSMessage{Type: voice.WSTypeError, Error: "invalid message"}) {
				break
			}
			continue
		}

		if msg.SessionID == "" {
			msg.SessionID = sessionID
		}

		ctx, cancel := context.WithTimeout(baseCtx, 30*time.Second)
		reply := h.dispatchWS(ctx, msg)
		cancel()

		if reply.SessionID != "" {
			sessionID = reply.SessionID
		}

		if !h.writeWS(c, reply) {
			break
		}
	}
}

func (h *VoiceHandler) dispatchWS(ctx context.Context, msg voice.WSMessage) voice.WSMessage {
	switch msg.Type {
	case voice.WSTypeTranscript:
		req := voice.CommandRequest{
			SessionID:  msg.SessionID,
			Transcript: msg.Transcript,
			Page:       msg.Page,
			Targets:    msg.Targets,
		}
		if err := h.validator.Struct(req); err != nil {
			return wsError(msg.SessionID, err)
		}
		res, err := h.voiceService.ProcessCommand(ctx, req)
		if err != nil {
			return wsError(msg.SessionID, err)
		}
		return voice.WSMessage{Type: voice.WSTypeCommand, SessionID: res.SessionID, Data: res}

	case voice.WSTypeSpeechEnd:
		if msg.UtteranceID == "" {
			return wsError(msg.SessionID, errors.New("utterance_id is required"))
		}
		res, err := h.voiceService.CompleteUtterance(ctx, msg.UtteranceID)
		if err != nil {
			return wsError(msg.SessionID, err)
		}
		return voice.WSMessage{Type: voice.WSTypeAction, SessionID: res.SessionID, UtteranceID: res.UtteranceID, Data: res.Action}

	case voice.WSTypeRecognition:
		if msg.SessionID == "" {
			return wsError("", errors.New("session_id is required"))
		}
		res, err := h.voiceService.RecordRecognition(ctx, msg.SessionID, voice.RecognitionRequest{Event: msg.Event})
		if err != nil {
			return wsError(msg.SessionID, err)
		}
		return voice.WSMessage{Type: voice.WSTypeRecognition, SessionID: res.Session.ID, Data: res}

	default:
		return wsError(msg.SessionID, errors.New("unknown message type"))
	}
}

func (h *VoiceHandler) writeWS(c *websocket.Conn, msg voice.WSMessage) bool {
	if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		h.log.Errorf("Error setting write deadline: %v", err)
		return false
	}

	if err := c.WriteJSON(msg); err != nil {
		h.log.Errorf("Error writing JSON response: %v", err)
		return false
	}

	return true
}

func wsError(sessionID string, err error) voice.WSMessage {
	return voice.WSMessage{Type: voice.WSTypeError, SessionID: sessionID, Error: err.Error()}
}
