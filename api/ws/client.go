package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"showtime/api/config"
	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/security"
	"showtime/api/service/game"
	"showtime/api/service/spatial"
	"showtime/api/system"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	viewerNo string
	name     string
	role     string

	// mu guards send teardown and the stroke bookkeeping: the hub can drop
	// a slow client from a broadcaster's goroutine while readPump is still
	// dispatching.
	mu     sync.Mutex
	closed bool
	// map of the stroke currently being painted, for cancel-on-disconnect
	strokeMap string
}

// trySend queues a frame unless the client is already torn down or its
// buffer is full. Reports whether the frame was queued.
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) setStroke(mapID string) {
	c.mu.Lock()
	c.strokeMap = mapID
	c.mu.Unlock()
}

func (c *Client) stroke() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strokeMap
}

func (c *Client) sendEnvelope(msgType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	frame, _ := json.Marshal(Envelope{Type: msgType, Data: raw})
	c.trySend(frame)
}

// Handle upgrades the connection. A valid session token joins as its
// account's role (re-read from the account row, so a revoked elevation
// takes effect on reconnect); everyone else joins as a spectator.
func (h *Hub) Handle(c *gin.Context) {
	viewerNo := "spec-" + uuid.NewString()[:8]
	name := "spectator"
	role := model.RoleSpectator

	if raw := c.Query("token"); raw != "" {
		claims, err := security.ParseToken(config.Get().Game.JwtSecret, raw)
		if err != nil {
			log.Warnf("ws: rejected token: %v", err)
		} else {
			viewerNo = claims.ViewerNo
			name = claims.DisplayName
			role = model.RolePlayer
			if claims.Elevated {
				role = model.RoleDM
			}
			if db := system.GetDb(); db != nil {
				var acct model.ViewerAccount
				err := db.Where("viewer_no = ?", claims.ViewerNo).First(&acct).Error
				if err == nil {
					role = acct.Role()
					name = acct.DisplayName
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Warnf("ws: account lookup failed: %v", err)
				}
			}
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("ws: upgrade failed for %s: %v", viewerNo, err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 64),
		viewerNo: viewerNo,
		name:     name,
		role:     role,
	}
	h.register(client)

	client.sendEnvelope("hello", map[string]interface{}{
		"viewer_no": viewerNo,
		"role":      role,
		"ops":       security.AllowedOps(role),
	})

	go client.writePump()
	client.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("ws: read from %s: %v", c.name, err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			c.sendEnvelope("error", map[string]string{"msg": "bad frame"})
			continue
		}
		c.dispatch(env)
	}
}

type fogMsg struct {
	MapID string  `json:"map_id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Brush float64 `json:"brush,omitempty"`
}

type boxAddMsg struct {
	MapID string    `json:"map_id"`
	Box   model.Box `json:"box"`
}

type boxGestureMsg struct {
	MapID     string            `json:"map_id"`
	BoxID     string            `json:"box_id"`
	Gesture   string            `json:"gesture,omitempty"`
	Container spatial.Container `json:"container"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
}

type pingMsg struct {
	MapID string  `json:"map_id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

type diceMsg struct {
	Spec string `json:"spec"`
}

func parseGesture(s string) (spatial.Gesture, bool) {
	switch s {
	case "drag":
		return spatial.GestureDragging, true
	case "resize":
		return spatial.GestureResizing, true
	case "rotate":
		return spatial.GestureRotating, true
	default:
		return spatial.GestureIdle, false
	}
}

func (c *Client) dispatch(env Envelope) {
	fail := func(err error) {
		if err == nil {
			return
		}
		if errors.Is(err, game.ErrNotAllowed) {
			// Role-gated operations are silent no-ops for everyone who
			// shouldn't see them in the first place.
			log.Warnf("ws: %s (%s) attempted %s", c.name, c.role, env.Type)
			return
		}
		c.sendEnvelope("error", map[string]string{"msg": err.Error()})
	}

	switch env.Type {
	case "fog_begin":
		var m fogMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		c.setStroke(m.MapID)
		fail(c.hub.svc.BeginFogStroke(c.role, m.MapID, m.X, m.Y, m.Brush))
	case "fog_move":
		var m fogMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		fail(c.hub.svc.MoveFogStroke(c.role, m.MapID, m.X, m.Y))
	case "fog_end":
		var m fogMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		c.setStroke("")
		fail(c.hub.svc.EndFogStroke(c.role, m.MapID))
	case "fog_clear":
		var m fogMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		fail(c.hub.svc.ClearFog(c.role, m.MapID))
	case "box_add":
		var m boxAddMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		_, err := c.hub.svc.AddBox(c.role, c.viewerNo, m.MapID, m.Box)
		fail(err)
	case "box_begin":
		var m boxGestureMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		g, ok := parseGesture(m.Gesture)
		if !ok {
			return
		}
		fail(c.hub.svc.BeginBoxGesture(c.role, c.viewerNo, m.MapID, m.BoxID, g))
	case "box_move":
		var m boxGestureMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		_, err := c.hub.svc.MoveBoxGesture(c.role, c.viewerNo, m.MapID, m.BoxID, m.Container, m.X, m.Y)
		fail(err)
	case "box_end":
		var m boxGestureMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		fail(c.hub.svc.EndBoxGesture(c.role, c.viewerNo, m.MapID, m.BoxID))
	case "box_delete":
		var m boxGestureMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		fail(c.hub.svc.DeleteBox(c.role, c.viewerNo, m.MapID, m.BoxID))
	case "ping":
		var m pingMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		_, err := c.hub.svc.Ping(c.role, c.viewerNo, m.MapID, m.X, m.Y, m.Color)
		fail(err)
	case "dice":
		var m diceMsg
		if json.Unmarshal(env.Data, &m) != nil {
			return
		}
		_, err := c.hub.svc.RollDice(c.role, c.viewerNo, c.name, m.Spec)
		fail(err)
	default:
		c.sendEnvelope("error", map[string]string{"msg": "unknown message type"})
	}
}
