package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/google/uuid"
)

// wsChannel carries jrpc2 messages over one WebSocket connection, one text
// message per JSON-RPC message.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWS upgrades the request and serves the jar methods over it until the
// client disconnects. Sessions are tagged with a random id in the logs.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("rpc: websocket upgrade failed: %v", err)
		return
	}
	session := uuid.NewString()
	rs.log.Debug("rpc: websocket session %s opened from %s", session, r.RemoteAddr)

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, nil).Start(ch)
	if err := srv.Wait(); err != nil {
		rs.log.Debug("rpc: websocket session %s ended: %v", session, err)
		return
	}
	rs.log.Debug("rpc: websocket session %s closed", session)
}
