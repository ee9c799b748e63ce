package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
)

// ConnCtx is the per-connection context stored on the socket: the stable
// identity the client presented at handshake (distinct from the transient
// socket id).
type ConnCtx struct {
	Identity string
}

// Mount attaches the Socket.IO server with the game event handlers to the
// given Gin engine. Every handler forwards into the coordinator's command
// loop; nothing touches game state on the transport goroutines.
func (c *Coordinator) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		u := s.URL()
		identity := u.Query().Get("clientId")
		if identity == "" {
			// A client without a persisted identity gets a fresh one; it
			// will not survive a reconnect, but registration still works.
			identity = uuid.NewString()
		}
		s.SetContext(&ConnCtx{Identity: identity})
		c.Attach(s)
		log.Info().Str("sid", s.ID()).Str("identity", identity).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", EventRegisterPlayer, func(s socketio.Conn, payload RegisterPayload) {
		ctx := s.Context().(*ConnCtx)
		log.Info().Str("sid", s.ID()).Str("name", payload.DisplayName).Msg(EventRegisterPlayer)
		c.Register(s, ctx.Identity, payload.DisplayName)
	})

	io.OnEvent("/", EventSubmitWord, func(s socketio.Conn, payload WordPayload) {
		ctx := s.Context().(*ConnCtx)
		log.Info().Str("sid", s.ID()).Str("word", payload.Word).Msg(EventSubmitWord)
		c.SubmitWord(ctx.Identity, payload.Word)
	})

	io.OnEvent("/", EventGetPlayerCount, func(s socketio.Conn) {
		c.PlayerCount(s)
	})

	io.OnEvent("/", EventIsReturningPlayer, func(s socketio.Conn, payload IdentityPayload) {
		identity := payload.Identity
		if identity == "" {
			identity = s.Context().(*ConnCtx).Identity
		}
		c.ReturningProbe(s, identity)
	})

	io.OnEvent("/", EventRequestFullState, func(s socketio.Conn) {
		c.RequestFullState(s)
	})

	io.OnEvent("/", EventText, func(s socketio.Conn, message string) {
		log.Info().Str("sid", s.ID()).Str("message", message).Msg("text from client")
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		identity := ""
		if ctx, ok := s.Context().(*ConnCtx); ok {
			identity = ctx.Identity
		}
		// Transport loss is an implicit disconnect; the seat frees up and
		// the same identity can reclaim one by re-registering.
		c.Detach(s, identity)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(gc *gin.Context) {
		gc.Header("Access-Control-Allow-Origin", "*")
		gc.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		gc.Header("Access-Control-Allow-Headers", "Content-Type")
		gc.Status(http.StatusNoContent)
	})

	return io
}
