package ws

// The closed catalogue of socket events. The server never dispatches on
// dynamic names; every inbound event maps onto one command kind in the
// coordinator loop.
const (
	// client -> server
	EventRegisterPlayer    = "registerPlayer"
	EventSubmitWord        = "submitWord"
	EventGetPlayerCount    = "getPlayerCount"
	EventIsReturningPlayer = "isReturningPlayer"
	EventRequestFullState  = "requestFullState"

	// server -> client
	EventPlayerRegistered    = "playerRegistered"
	EventPlayerNotRegistered = "playerNotRegistered"
	EventPlayerCount         = "playerCount"
	EventPlayerJoin          = "playerJoinNotification"
	EventPlayerLeave         = "playerLeaveNotification"
	EventGameStateUpdate     = "gameStateUpdate"
	EventReturningPlayer     = "returningPlayer"
	EventText                = "text"
)

type RegisterPayload struct {
	DisplayName string `json:"displayName"`
}

type WordPayload struct {
	Word string `json:"word"`
}

type IdentityPayload struct {
	Identity string `json:"identity"`
}

type RejectionPayload struct {
	Reason string `json:"reason"`
}

type CountPayload struct {
	Count int `json:"count"`
}

type ReturningPayload struct {
	Found bool   `json:"found"`
	Name  string `json:"name,omitempty"`
	Seat  int    `json:"seat"`
}
