package gameservice

import "errors"

// ErrActiveGameExists is returned when a game is started while another is active.
var ErrActiveGameExists = errors.New("an active game already exists")
