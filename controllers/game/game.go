package game

import (
	"trio/services"
)

// Engine is wired in by routes.Setup at startup.
var Engine *services.Engine

func Use(e *services.Engine) {
	Engine = e
}
