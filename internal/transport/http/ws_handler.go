package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"classgroup-service/internal/app"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.ClassroomService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ClassroomService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type namePayload struct {
	Name string `json:"name"`
}

type groupSizePayload struct {
	Size int `json:"size"`
}

type groupPayload struct {
	Group int `json:"group"`
}

type answerPayload struct {
	Group    int    `json:"group"`
	Question int    `json:"question"`
	Text     string `json:"text"`
}

type themePayload struct {
	Theme string `json:"theme"`
}

type poolPayload struct {
	PoolID string `json:"poolId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// classroom use cases. Every state change reaches the client as a "state"
// snapshot; the chart is answered on demand.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	classroomID := r.URL.Query().Get("classroomId")
	if classroomID == "" {
		http.Error(w, "missing classroomId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	joined, updates, release, err := h.service.Join(r.Context(), classroomID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer release()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not allow concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, classroomID, inbound, send); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, classroomID string, inbound inboundMessage, send chan<- outboundMessage[any]) error {
	ctx := r.Context()
	switch inbound.Type {
	case "addName":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.AddParticipant(ctx, classroomID, payload.Name)
	case "removeName":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.RemoveParticipant(ctx, classroomID, payload.Name)
	case "clearAll":
		return h.service.ClearAll(ctx, classroomID)
	case "generateGroups":
		var payload groupSizePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.GenerateGroups(ctx, classroomID, payload.Size)
	case "loadPool":
		var payload poolPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.LoadPool(ctx, classroomID, payload.PoolID)
	case "open":
		var payload groupPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.OpenGroup(ctx, classroomID, payload.Group)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.UpdateAnswer(ctx, classroomID, payload.Group, payload.Question, payload.Text)
	case "submit":
		var payload groupPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.Submit(ctx, classroomID, payload.Group)
	case "back":
		return h.service.Back(ctx, classroomID)
	case "theme":
		var payload themePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return h.service.SetTheme(ctx, classroomID, payload.Theme)
	case "chart":
		chart, err := h.service.Chart(ctx, classroomID)
		if err != nil {
			return err
		}
		send <- outboundMessage[any]{Type: "chart", Payload: chart}
		return nil
	default:
		return errUnsupportedType
	}
}

var (
	errInvalidPayload  = errors.New("invalid payload")
	errUnsupportedType = errors.New("unsupported message type")
)
