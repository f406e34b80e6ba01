package gateway

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"linguakit/core"
	"linguakit/language"
	"linguakit/scenario"
	"linguakit/session"
)

// Gateway accepts browser connections and gives each one its own tutoring
// session. Sessions share the collaborator services but nothing else.
type Gateway struct {
	collaborators session.Collaborators
	logger        *core.Logger
	upgrader      websocket.Upgrader
}

func New(collaborators session.Collaborators, logger *core.Logger) *Gateway {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Gateway{
		collaborators: collaborators,
		logger:        logger.With(map[string]interface{}{"component": "gateway"}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser UI is served from arbitrary dev origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and services the connection until it closes.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.With(map[string]interface{}{"error": err}).Error("websocket upgrade failed")
		return
	}

	g.logger.With(map[string]interface{}{"remote": conn.RemoteAddr().String()}).Info("client connected")
	client := newClient(conn, g.collaborators, g.logger)
	client.run()
	g.logger.With(map[string]interface{}{"remote": conn.RemoteAddr().String()}).Info("client disconnected")
}

// Languages serves the supported language catalog for the setup screen.
func (g *Gateway) Languages(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, language.Supported)
}

// Scenarios serves the scenario catalog for the setup screen.
func (g *Gateway) Scenarios(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, scenario.Catalog)
}

// Healthz reports liveness.
func (g *Gateway) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (g *Gateway) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		g.logger.With(map[string]interface{}{"error": err}).Error("encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
