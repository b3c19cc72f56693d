package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"sierra/api"
	"sierra/core"
	"sierra/internal/lambdaproxy"
)

func main() {
	cfg, err := core.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := core.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	stores, err := api.OpenStores(cfg, logger)
	if err != nil {
		panic(err)
	}

	proxy := lambdaproxy.New(api.NewEngine(cfg, logger, stores), cfg.LambdaStripPrefix)
	lambda.Start(proxy.Handle)
}
