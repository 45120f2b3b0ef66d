package ws

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"wayfinder.ai/internal/nav"
	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/persistence/journal"
	"wayfinder.ai/internal/protocol"
)

// Server hosts navigation sessions over websocket, one independent
// session per connection. The perception/objective host streams OBS and
// issues PLAN/ADVANCE requests; all session calls happen on the reader
// goroutine, preserving the single-caller discipline the nav core
// assumes.
type Server struct {
	newSession   func() *nav.Session
	onClose      func(*nav.Session)
	journal      *journal.Writer // nil disables journaling
	log          *log.Logger
	legendDigest string

	obsSchema  *jsonschema.Schema
	planSchema *jsonschema.Schema

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

type Config struct {
	NewSession   func() *nav.Session
	OnClose      func(*nav.Session)
	Journal      *journal.Writer
	Logger       *log.Logger
	LegendDigest string
	SchemasDir   string
}

func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		newSession:   cfg.NewSession,
		onClose:      cfg.OnClose,
		journal:      cfg.Journal,
		log:          cfg.Logger,
		legendDigest: cfg.LegendDigest,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	if s.log == nil {
		s.log = log.New(io.Discard, "", 0)
	}
	if cfg.SchemasDir != "" {
		var err error
		if s.obsSchema, err = jsonschema.Compile(cfg.SchemasDir + "/obs.schema.json"); err != nil {
			return nil, fmt.Errorf("compile obs schema: %w", err)
		}
		if s.planSchema, err = jsonschema.Compile(cfg.SchemasDir + "/plan.schema.json"); err != nil {
			return nil, fmt.Errorf("compile plan schema: %w", err)
		}
	}
	return s, nil
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, ok := s.handshake(conn)
		if !ok {
			return
		}
		sess := s.newSession()
		s.log.Printf("session %s open", sessionID)
		defer func() {
			if s.onClose != nil {
				s.onClose(sess)
			}
			s.log.Printf("session %s closed", sessionID)
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			switch base.Type {
			case protocol.TypeObs:
				s.handleObs(sess, msg)
			case protocol.TypePlan:
				s.handlePlan(conn, sess, msg)
			case protocol.TypeAdvance:
				s.handleAdvance(conn, sess, msg)
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", false
	}

	id := "S" + strconv.FormatUint(s.nextID.Add(1), 10)
	err = writeJSON(conn, protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       id,
		LegendDigest:    s.legendDigest,
	})
	return id, err == nil
}

func (s *Server) handleObs(sess *nav.Session, msg []byte) {
	if !s.validate(s.obsSchema, msg) {
		s.log.Printf("%s: obs failed schema validation", protocol.ErrInvalidObservation)
		return
	}
	var m protocol.ObsMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return
	}
	if s.journal != nil {
		if err := s.journal.Append(m); err != nil {
			s.log.Printf("journal append: %v", err)
		}
	}
	sess.Ingest(ObsFromMsg(m))
}

func (s *Server) handlePlan(conn *websocket.Conn, sess *nav.Session, msg []byte) {
	var m protocol.PlanMsg
	if !s.validate(s.planSchema, msg) {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrProtoBadRequest, Message: "plan failed schema validation"})
		return
	}
	if err := json.Unmarshal(msg, &m); err != nil {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrProtoBadRequest, Message: "bad plan message"})
		return
	}
	req, err := PlanRequestFromMsg(m)
	if err != nil {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrProtoBadRequest, Message: err.Error()})
		return
	}
	res := sess.Plan(req)
	_ = writeJSON(conn, PlanResultToMsg(m.RequestID, res))
}

func (s *Server) handleAdvance(conn *websocket.Conn, sess *nav.Session, msg []byte) {
	var m protocol.AdvanceMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrProtoBadRequest, Message: "bad advance message"})
		return
	}
	move, status := sess.Advance(nav.GlobalPos{
		AreaID: m.AreaID,
		Pos:    nav.Vec2i{X: m.Pos[0], Y: m.Pos[1]},
	})
	out := protocol.AdvanceResultMsg{
		Type:      protocol.TypeAdvanceResult,
		RequestID: m.RequestID,
		Status:    status,
	}
	if status == protocol.StatusOK {
		out.Move = move.String()
	}
	_ = writeJSON(conn, out)
}

func (s *Server) validate(schema *jsonschema.Schema, msg []byte) bool {
	if schema == nil {
		return true
	}
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return false
	}
	return schema.Validate(v) == nil
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// ObsFromMsg converts a wire observation into the nav-internal form.
// Legend keys arrive as decimal strings (JSON object keys); unparsable
// keys are dropped here and the unmapped code check in ingest catches
// anything that mattered.
func ObsFromMsg(m protocol.ObsMsg) nav.Observation {
	obs := nav.Observation{
		Tick:   m.Tick,
		AreaID: m.AreaID,
		Player: nav.Vec2i{X: m.Player[0], Y: m.Player[1]},
		Origin: nav.Vec2i{X: m.Origin[0], Y: m.Origin[1]},
		Width:  m.Width,
		Height: m.Height,
		Codes:  m.Codes,
	}
	if len(m.Legend) > 0 {
		obs.Legend = make(map[int]string, len(m.Legend))
		for k, v := range m.Legend {
			code, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			obs.Legend[code] = v
		}
	}
	for _, p := range m.Portals {
		obs.Portals = append(obs.Portals, nav.Portal{
			ID:       p.ID,
			FromArea: p.FromArea,
			From:     nav.Vec2i{X: p.From[0], Y: p.From[1]},
			ToArea:   p.ToArea,
			To:       nav.Vec2i{X: p.To[0], Y: p.To[1]},
			Kind:     p.Kind,
			Cost:     p.Cost,
		})
	}
	return obs
}

// PlanRequestFromMsg converts a wire plan request, enforcing that the
// goal is exactly one of coord, dir, portal_id.
func PlanRequestFromMsg(m protocol.PlanMsg) (nav.PathRequest, error) {
	req := nav.PathRequest{
		AreaID:        m.AreaID,
		Start:         nav.Vec2i{X: m.Start[0], Y: m.Start[1]},
		AvoidHazard:   m.AvoidHazard,
		MaxBatchSteps: m.MaxBatchSteps,
		NodeBudget:    m.NodeBudget,
	}
	set := 0
	if m.Coord != nil {
		set++
		req.Goal = nav.Goal{Kind: nav.GoalCoord, AreaID: m.GoalArea, Coord: nav.Vec2i{X: m.Coord[0], Y: m.Coord[1]}}
	}
	if m.Dir != "" {
		set++
		f, err := terrain.ParseFacing(m.Dir)
		if err != nil {
			return req, err
		}
		req.Goal = nav.Goal{Kind: nav.GoalDirection, Dir: f}
	}
	if m.PortalID != "" {
		set++
		req.Goal = nav.Goal{Kind: nav.GoalPortal, PortalID: m.PortalID}
	}
	if set != 1 {
		return req, fmt.Errorf("plan goal must set exactly one of coord, dir, portal_id")
	}
	return req, nil
}

func PlanResultToMsg(requestID string, res nav.PathResult) protocol.PlanResultMsg {
	out := protocol.PlanResultMsg{
		Type:      protocol.TypePlanResult,
		RequestID: requestID,
		Status:    res.Status,
		Cost:      res.Cost,
	}
	for _, m := range res.Moves {
		out.Moves = append(out.Moves, m.String())
	}
	for _, w := range res.Waypoints {
		out.Waypoints = append(out.Waypoints, protocol.WaypointMsg{
			AreaID: w.AreaID,
			Coord:  [2]int{w.Coord.X, w.Coord.Y},
		})
	}
	return out
}
