package link

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/truetouch/pkg/framework"
)

// DefaultWebsocketPath is where controllers connect.
const DefaultWebsocketPath = "/cmd"

// WebsocketConn implements PacketReader and Sink on a websocket.
type WebsocketConn websocket.Conn

// NewWebsocketConn wraps websocket.Conn.
func NewWebsocketConn(conn *websocket.Conn) *WebsocketConn {
	return (*WebsocketConn)(conn)
}

// ReadPacket implements PacketReader.
func (c *WebsocketConn) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(c), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (c *WebsocketConn) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(c), pkt)
}

// Close implements io.Closer.
func (c *WebsocketConn) Close() error {
	return (*websocket.Conn)(c).Close()
}

// WebsocketSource serves controllers over websocket. Every message
// received from any connection is written to Writer.
type WebsocketSource struct {
	Addr   string
	Path   string
	Writer io.Writer
}

// Name implements framework.Named.
func (s *WebsocketSource) Name() string {
	return "ws:" + s.Addr
}

// Handler returns the websocket handler.
func (s *WebsocketSource) Handler() http.Handler {
	return websocket.Handler(s.serveConn)
}

// Run implements Runnable.
func (s *WebsocketSource) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = DefaultWebsocketPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler())
	server := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("%s listening on %s", s.Name(), path)
	return framework.RunWithContextCancel(ctx, func() { server.Close() }, server.ListenAndServe)
}

func (s *WebsocketSource) serveConn(conn *websocket.Conn) {
	name := "ws:" + conn.Request().RemoteAddr
	glog.Infof("%s connected", name)
	src := &PacketSource{Reader: NewWebsocketConn(conn), Writer: s.Writer, Name: name}
	if err := src.Run(conn.Request().Context()); err != nil {
		glog.Warningf("%s: %v", name, err)
	}
	glog.Infof("%s disconnected", name)
}

func dialWebsocket(u *url.URL) (Sink, error) {
	origin := "http://" + u.Host + "/"
	if u.Scheme == "wss" {
		origin = "https://" + u.Host + "/"
	}
	conn, err := websocket.Dial(u.String(), "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return NewWebsocketConn(conn), nil
}

func init() {
	RegisterScheme("ws", dialWebsocket)
	RegisterScheme("wss", dialWebsocket)
}
