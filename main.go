package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhhuango/json"

	"github.com/quantops/greekbot/batch"
	"github.com/quantops/greekbot/contracts"
	greekbotslack "github.com/quantops/greekbot/slack"
)

const defaultOutputFile = "valuations.json"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file loaded: %s", err)
	}

	if len(os.Args) > 1 {
		outputFile := defaultOutputFile
		if len(os.Args) > 2 {
			outputFile = os.Args[2]
		}
		runBatch(os.Args[1], outputFile)
		return
	}

	appToken := os.Getenv("SLACK_APP_TOKEN")
	botToken := os.Getenv("SLACK_BOT_TOKEN")
	if appToken == "" || botToken == "" {
		fmt.Println("Usage: greekbot <contracts.json> [output.json]")
		fmt.Println("   or: set SLACK_APP_TOKEN and SLACK_BOT_TOKEN to run the Slack bot")
		os.Exit(1)
	}

	bot := greekbotslack.NewSlackBot(appToken, botToken)
	log.Fatal(bot.Start())
}

func runBatch(contractsFile, outputFile string) {
	list, err := contracts.Load(contractsFile)
	if err != nil {
		log.Fatalf("Error loading contracts: %s", err)
	}

	start := time.Now()
	results := batch.Run(list, start, 0)
	fmt.Printf("\nProcessing complete. Total time: %v\n", time.Since(start))

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("%d of %d contracts were rejected\n", failed, len(results))
	}

	jresults, err := json.Marshal(results)
	if err != nil {
		fmt.Printf("Error marshalling results: %s\n", err.Error())
		return
	}

	err = os.WriteFile(outputFile, jresults, 0644)
	if err != nil {
		fmt.Printf("Error writing to file %s: %s\n", outputFile, err.Error())
		return
	}

	fmt.Printf("Successfully wrote %d valuations to %s\n", len(results), outputFile)
}
