package main

import (
	"context"
	"log"

	"github.com/vvakame/foodexpress/internal/cmd"
)

func main() {
	err := realMain()
	if err != nil {
		log.Fatal(err)
	}
}

func realMain() error {
	return cmd.NewRootCommand().ExecuteContext(context.Background())
}
