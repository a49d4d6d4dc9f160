package main

import (
	"os"

	"bankapp/bank"
	"bankapp/console"
)

func main() {
	console.Run(bank.NewService(), os.Stdin, os.Stdout)
}
