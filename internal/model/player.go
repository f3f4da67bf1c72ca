package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string       `json:"name"`
	Color engine.Color `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// colorOf returns the seat held by playerID.
func (p Players) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return engine.White, true
	case p.Black.ID == playerID:
		return engine.Black, true
	}
	return "", false
}

func (p Players) full() bool {
	return p.White.ID != "" && p.Black.ID != ""
}
