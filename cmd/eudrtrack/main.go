package main

import (
	"context"
	"log"
	"os"

	"github.com/forestline/eudrtrack/pkg/eudrtrack"
)

func main() {
	if err := eudrtrack.Main(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
