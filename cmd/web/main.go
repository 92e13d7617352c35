package main

import "atelier_backend/internal/app"

func main() {
	app.Run()
}
