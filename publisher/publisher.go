package main

import (
	"flag"
	"log"
	"os"

	stan "github.com/nats-io/stan.go"

	"production/internal/app"
)

func main() {
	cluster := flag.String("cluster", "orders-cluster", "stan cluster id")
	url := flag.String("url", "nats://localhost:4222", "nats url")
	subject := flag.String("subject", "order-data", "subject")
	flag.Parse()

	fn := "command.json"
	if flag.NArg() > 0 {
		fn = flag.Arg(0)
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		log.Fatal(err)
	}
	// refuse to publish something the service would never ack
	if _, err := app.DecodeCommand(data); err != nil {
		log.Fatal(err)
	}

	sc, err := stan.Connect(*cluster, "publisher-cli", stan.NatsURL(*url))
	if err != nil {
		log.Fatal(err)
	}
	defer sc.Close()

	if err := sc.Publish(*subject, data); err != nil {
		log.Fatal(err)
	}
	log.Println("published", fn)
}
