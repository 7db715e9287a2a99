package chessdto

type RequestMeta struct {
	GameID string
	Sender string
}

type StartRequest struct {
	Meta         RequestMeta
	OpponentID   string
	SenderName   string
	OpponentName string
	Color        string
	FEN          string
}

type StartResponse struct {
	State *GameState
	Text  string
}

type StatusRequest struct {
	Meta RequestMeta
}

type StatusResponse struct {
	State *GameState
}

type LegalMovesRequest struct {
	Meta   RequestMeta
	Square string
}

type LegalMovesResponse struct {
	Square  string
	Targets []string
}

type SubmitMoveRequest struct {
	Meta RequestMeta
	Move string
}

type SubmitMoveResponse struct {
	Summary *MoveSummary
}

type ResignRequest struct {
	Meta RequestMeta
}

type ResignResponse struct {
	State *GameState
	Text  string
}

type HistoryRequest struct {
	Meta  RequestMeta
	Limit int
}

type HistoryResponse struct {
	Games  []*ChessGame
	Record *PlayerRecord
}
