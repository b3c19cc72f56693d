// Package lambdaproxy serves API Gateway proxy events through the gin
// engine, so the Lambda functions run the same routes as the standalone
// server.
package lambdaproxy

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Proxy struct {
	adapter *ginadapter.GinLambda
}

// New wraps engine. A non-empty stripPrefix (for example "/auth") is removed
// from event paths before routing.
func New(engine *gin.Engine, stripPrefix string) *Proxy {
	adapter := ginadapter.New(engine)
	if stripPrefix != "" {
		adapter.StripBasePath(stripPrefix)
	}

	return &Proxy{adapter: adapter}
}

// Handle is the Lambda entry point.
func (p *Proxy) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return p.adapter.ProxyWithContext(ctx, event)
}
