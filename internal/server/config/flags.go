package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/mragil/expense-tracker-wa/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-e string   Evolution API base URL
//	-k string   Evolution API key
//	-i string   Evolution instance name
//	-o string   bot's own WhatsApp number
//	-l string   LLM base URL (OpenAI-compatible)
//	-s string   LLM API key
//	-m string   LLM model name
//	-w string   comma-separated whitelist of numbers
//	-P          enable public mode (no whitelist for direct chats)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-n string   S3 base endpoint
//	-t int      worker poll interval, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-e", "-k", "-i", "-o", "-l", "-s", "-m", "-w", "-P",
		"-u", "-p", "-b", "-g", "-n", "-t",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EvolutionAPIURL, "e", config.EvolutionAPIURL, "Evolution API base URL")
	fs.StringVar(&config.EvolutionAPIKey, "k", config.EvolutionAPIKey, "Evolution API key")
	fs.StringVar(&config.EvolutionInstance, "i", config.EvolutionInstance, "Evolution instance name")
	fs.StringVar(&config.BotNumber, "o", config.BotNumber, "bot's own WhatsApp number")
	fs.StringVar(&config.LLMBaseURL, "l", config.LLMBaseURL, "LLM base URL")
	fs.StringVar(&config.LLMAPIKey, "s", config.LLMAPIKey, "LLM API key")
	fs.StringVar(&config.LLMModel, "m", config.LLMModel, "LLM model name")

	whitelist := fs.String("w", strings.Join(config.WhitelistedNumbers, ","), "comma-separated whitelisted numbers")
	fs.BoolVar(&config.PublicMode, "P", config.PublicMode, "public mode (skip whitelist for direct chats)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "n", config.S3BaseEndpoint, "S3 base endpoint")

	workerPollInterval := fs.Int("t", int(config.WorkerPollInterval.Seconds()), "worker poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.WhitelistedNumbers = splitNumbers(*whitelist)
	config.WorkerPollInterval = time.Duration(*workerPollInterval) * time.Second
}

// splitNumbers turns a comma-separated list into a slice, dropping empties.
func splitNumbers(s string) []string {
	var numbers []string
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}
