package main

import "github.com/thereayou/storyweaver/internal/server"

func main() {
	server.NewServer().Run()
}
