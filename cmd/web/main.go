package main

import "timebridge_backend/internal/app"

func main() {
	app.Run()
}
