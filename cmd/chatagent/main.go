// Package main provides a command-line interface for the chatagent library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/teilomillet/chatagent"
	"github.com/teilomillet/chatagent/agent"
	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/providers"
	"github.com/teilomillet/chatagent/tokenizer"
	"github.com/teilomillet/chatagent/utils"
	"github.com/teilomillet/chatagent/vector"
)

type cmdFlags struct {
	provider    string
	model       string
	apiKey      string
	endpoint    string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	stream      bool
	withMemory  bool
	qdrantHost  string
	qdrantPort  int
	collection  string
	logLevel    string
}

func parseFlags() *cmdFlags {
	flags := &cmdFlags{}
	flag.StringVar(&flags.provider, "provider", "", "Completion provider (openai)")
	flag.StringVar(&flags.model, "model", "", "Model name")
	flag.StringVar(&flags.apiKey, "api-key", "", "API key for the provider")
	flag.StringVar(&flags.endpoint, "endpoint", "", "Override the provider endpoint")
	flag.Float64Var(&flags.temperature, "temperature", -1, "Sampling temperature")
	flag.IntVar(&flags.maxTokens, "max-tokens", 0, "Completion token limit")
	flag.DurationVar(&flags.timeout, "timeout", 0, "Request timeout")
	flag.BoolVar(&flags.stream, "stream", false, "Stream the completion")
	flag.BoolVar(&flags.withMemory, "memory", false, "Run through the memory agent pipeline")
	flag.StringVar(&flags.qdrantHost, "qdrant-host", "", "Qdrant host for long-term memory (empty keeps memory in process)")
	flag.IntVar(&flags.qdrantPort, "qdrant-port", 6334, "Qdrant gRPC port")
	flag.StringVar(&flags.collection, "collection", "chatagent", "Qdrant collection")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level (OFF, ERROR, WARN, INFO, DEBUG)")
	flag.Parse()
	return flags
}

func buildConfig(flags *cmdFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flags.provider != "" {
		cfg.Provider = flags.provider
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}
	if flags.apiKey != "" {
		cfg.APIKeys[cfg.Provider] = flags.apiKey
	}
	if flags.endpoint != "" {
		cfg.Endpoint = flags.endpoint
	}
	if flags.temperature >= 0 {
		cfg.Temperature = flags.temperature
	}
	if flags.maxTokens > 0 {
		cfg.MaxTokens = flags.maxTokens
	}
	if flags.timeout > 0 {
		cfg.Timeout = flags.timeout
	}
	if flags.logLevel != "" {
		var level utils.LogLevel
		if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func main() {
	flags := parseFlags()

	question := strings.Join(flag.Args(), " ")
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: chatagent [flags] <question>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	client, err := llm.NewClient(cfg, logger, providers.NewRegistry())
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if flags.withMemory {
		if err := runAgent(ctx, cfg, client, flags, question); err != nil {
			log.Fatalf("agent: %v", err)
		}
		return
	}

	prompt := llm.NewPrompt(question)
	if flags.stream {
		stream, err := client.Stream(ctx, prompt)
		if err != nil {
			log.Fatalf("stream: %v", err)
		}
		text, err := llm.Collect(ctx, stream)
		fmt.Println(text)
		if err != nil {
			log.Fatalf("stream: %v", err)
		}
		return
	}

	resp, err := client.Generate(ctx, prompt)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	fmt.Println(resp.Content)
}

func runAgent(ctx context.Context, cfg *config.Config, client *llm.Client, flags *cmdFlags, question string) error {
	estimator, err := tokenizer.NewTiktokenEstimator(cfg.Model)
	if err != nil {
		return err
	}

	var store vector.Store
	if flags.qdrantHost != "" {
		store, err = vector.NewQdrant(ctx, flags.qdrantHost, flags.qdrantPort, flags.collection)
		if err != nil {
			return err
		}
		defer store.Close()
	} else {
		store = vector.NewInMemoryStore()
	}

	var embedder embedding.Embedder
	if key := cfg.APIKeys[cfg.Provider]; key != "" {
		embedder = embedding.NewOpenAIEmbedder(key, "text-embedding-3-small", "", cfg.Timeout, utils.NewLogger(cfg.LogLevel))
	} else {
		embedder = embedding.HashEmbedder{}
	}

	memAgent := chatagent.NewMemoryAgent(cfg, client, chatagent.MemoryAgentDeps{
		Memory:    memory.NewInMemoryChatMemory(),
		Store:     store,
		Embedder:  embedder,
		Estimator: estimator,
	})

	resp, err := memAgent.Call(ctx, agent.NewPromptContext(llm.NewPrompt(question)))
	if err != nil {
		return err
	}
	fmt.Println(resp.Response.Content)
	return nil
}
