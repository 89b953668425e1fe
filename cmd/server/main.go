package main

import "github.com/thereayou/echochat/internal/server"

func main() {
	server.NewServer().Run()
}
