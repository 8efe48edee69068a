package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	erpx "github.com/tanpawarit/erp-support-agent/agent/erp"
	llmx "github.com/tanpawarit/erp-support-agent/agent/llm"
	oraclex "github.com/tanpawarit/erp-support-agent/agent/oracle"
	pipelinex "github.com/tanpawarit/erp-support-agent/agent/pipeline"
	policyx "github.com/tanpawarit/erp-support-agent/agent/policy"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
	ticketdbx "github.com/tanpawarit/erp-support-agent/agent/ticketdb"
	toolx "github.com/tanpawarit/erp-support-agent/agent/tool"
	configx "github.com/tanpawarit/erp-support-agent/pkg/config"
	_ "github.com/tanpawarit/erp-support-agent/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/erp-support-agent/pkg/openrouter"
	qstashx "github.com/tanpawarit/erp-support-agent/pkg/qstash"
)

var exampleIssues = []string{
	"I received my order #ORD12345 yesterday, but the product is damaged. The packaging was fine but the item inside is cracked.",
	"My order #ORD67890 was supposed to arrive last week, but I still haven't received it. Can you help me track it?",
	"I ordered a t-shirt in my order #ORD54321, but received a water bottle instead. What should I do?",
	"The headphones I received in order #ORD12345 are defective. They don't work at all when I try to use them.",
}

func main() {
	issue := flag.String("issue", "", "customer issue text (defaults to a sample ticket)")
	example := flag.Int("example", 1, "sample issue to run when -issue is not set (1-4)")
	all := flag.Bool("all", false, "run every sample issue through the worker pool")
	customerID := flag.String("customer", "C1001", "customer id for the demo ticket")
	showPolicies := flag.Bool("policies", false, "print the policy catalog and exit")
	flag.Parse()

	if *showPolicies {
		fmt.Print(policyx.Format("Support Policy Catalog", policyx.NewCatalog().All()))
		return
	}

	var issues []string
	switch {
	case strings.TrimSpace(*issue) != "":
		issues = []string{strings.TrimSpace(*issue)}
	case *all:
		issues = exampleIssues
	default:
		idx := *example - 1
		if idx < 0 || idx >= len(exampleIssues) {
			idx = 0
		}
		issues = []string{exampleIssues[idx]}
	}

	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	preflight(ctx, llmCfg.OpenRouterFor(contractx.StageClassify))
	models, err := oraclex.NewRegistry(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create oracle registry")
	}

	store := erpx.NewStore()
	tools := toolx.NewRegistry(store)
	catalog := policyx.NewCatalog()

	svc, err := pipelinex.New(models, tools, catalog, newSink(ctx), pipelinex.Config{
		ProductReference: store.ProductReference(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create pipeline service")
	}

	dispatcher, err := pipelinex.NewDispatcher(svc, newPublisher(), pipelinex.DispatcherConfig{
		Workers:          2,
		EventDestination: os.Getenv("TICKET_EVENT_DESTINATION"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create dispatcher")
	}

	fmt.Println("Customer Support Agent Demo")
	fmt.Println("===========================")
	fmt.Println("\nProcessing your issue...")
	fmt.Println("------------------------")

	requests := make(chan pipelinex.TicketRequest)
	go func() {
		defer close(requests)
		for _, text := range issues {
			requests <- pipelinex.TicketRequest{
				TicketID:     "TICKET-" + strings.ToUpper(uuid.NewString()[:8]),
				CustomerID:   *customerID,
				Description:  text,
				ReceivedDate: time.Now().UTC(),
			}
		}
	}()

	for res := range dispatcher.Run(ctx, requests) {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("ticket_id", res.Request.TicketID).Msg("process ticket")
			continue
		}

		printConversation(res.State)
		fmt.Println("\n------------------------")
		fmt.Printf("Ticket %s resolved: %s (%s)\n", res.State.TicketID, res.State.ActionTaken, res.State.Reason)
	}
}

// preflight checks the OpenRouter credentials with a cheap model listing so
// bad keys fail before the first ticket instead of mid-pipeline.
func preflight(ctx context.Context, cfg openrouterx.Config) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return
	}
	if _, err := client.Models.List(ctx); err != nil {
		log.Warn().Err(err).Msg("openrouter preflight failed")
	}
}

// newPublisher wires QStash event publishing when QSTASH_URL is set.
func newPublisher() pipelinex.EventPublisher {
	if strings.TrimSpace(os.Getenv("QSTASH_URL")) == "" {
		return nil
	}
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	return qstashx.MustNew(*qstashCfg)
}

// newSink wires the Postgres sink when TICKETDB_DSN is set; otherwise the
// pipeline runs with persistence disabled, which is fine for the demo.
func newSink(ctx context.Context) contractx.Sink {
	if strings.TrimSpace(os.Getenv("TICKETDB_DSN")) == "" {
		return nil
	}

	dbCfg := configx.MustNew[ticketdbx.Config]("TICKETDB")
	db, err := ticketdbx.NewDB(*dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open ticket database")
	}

	sink, err := ticketdbx.NewPostgresSink(db)
	if err != nil {
		log.Fatal().Err(err).Msg("create postgres sink")
	}
	if err := sink.CreateTables(ctx); err != nil {
		log.Fatal().Err(err).Msg("create ticket tables")
	}

	if strings.TrimSpace(os.Getenv("TICKET_CACHE_URL")) != "" {
		cacheCfg := configx.MustNew[ticketdbx.RedisCacheConfig]("TICKET_CACHE")
		cache, err := ticketdbx.NewRedisCache(*cacheCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create ticket cache")
		}
		return ticketdbx.NewCachingSink(sink, cache)
	}
	return sink
}

func printConversation(st *statex.TicketState) {
	fmt.Println("\nConversation:")
	fmt.Println("-------------")
	for _, msg := range st.Messages {
		switch msg.Role {
		case statex.RoleHuman:
			fmt.Printf("\nCustomer: %s\n", msg.Content)
		case statex.RoleAssistant:
			fmt.Printf("\nAgent: %s\n", msg.Content)
		case statex.RoleTool:
			fmt.Printf("\nSystem: [%s] %s\n", msg.ToolName, msg.Content)
		}
	}
}
