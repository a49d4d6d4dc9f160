package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"bankapp/bank"
	"bankapp/chat"
	"bankapp/config"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	engine := &chat.Engine{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := chat.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("LLM fallback disabled: %v", err)
		} else {
			engine.Model = gemini
			defer gemini.Close()
		}
	}

	svc := bank.NewService()

	fmt.Println("Banking assistant started. Type messages to chat.")
	fmt.Println("Commands start with '/'. Type /help for options, /exit to quit.")

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "/exit" || line == "exit" {
			fmt.Println("Goodbye.")
			return
		}
		fmt.Println(engine.Reply(ctx, svc, line))
	}
}
