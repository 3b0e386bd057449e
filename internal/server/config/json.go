package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mragil/expense-tracker-wa/internal/flagx"
	"github.com/mragil/expense-tracker-wa/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	EvolutionAPIURL    string         `json:"evolution_api_url"`
	EvolutionAPIKey    string         `json:"evolution_api_key"`
	EvolutionInstance  string         `json:"evolution_instance"`
	BotNumber          string         `json:"bot_number"`
	LLMBaseURL         string         `json:"llm_base_url"`
	LLMAPIKey          string         `json:"llm_api_key"`
	LLMModel           string         `json:"llm_model"`
	WhitelistedNumbers []string       `json:"whitelisted_numbers"`
	PublicMode         bool           `json:"public_mode"`
	DefaultLanguage    string         `json:"default_language"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	WorkerPollInterval timex.Duration `json:"worker_poll_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.EvolutionAPIURL = c.EvolutionAPIURL
	config.EvolutionAPIKey = c.EvolutionAPIKey
	config.EvolutionInstance = c.EvolutionInstance
	config.BotNumber = c.BotNumber
	config.LLMBaseURL = c.LLMBaseURL
	config.LLMAPIKey = c.LLMAPIKey
	config.LLMModel = c.LLMModel
	config.WhitelistedNumbers = c.WhitelistedNumbers
	config.PublicMode = c.PublicMode
	config.DefaultLanguage = c.DefaultLanguage
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.WorkerPollInterval = time.Duration(c.WorkerPollInterval.Duration)
}
