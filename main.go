package main

import (
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
